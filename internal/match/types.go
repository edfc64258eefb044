package match

import "onchainjanken/internal/janken"

// Match is one round between a host and a guest. Matches are never deleted.
type Match struct {
	ID             uint64        `json:"id"`
	Host           string        `json:"host"`
	Guest          string        `json:"guest,omitempty"`
	BetAmount      uint64        `json:"betAmount"`
	HostCommitment janken.Hash   `json:"hostCommitment"`
	HostMove       janken.Move   `json:"hostMove"`
	GuestMove      janken.Move   `json:"guestMove"`
	Status         janken.Status `json:"status"`
	Winner         string        `json:"winner,omitempty"`
	Loser          string        `json:"loser,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	JoinedAt  int64 `json:"joinedAt,omitempty"`
	// TimeoutSecs is the reveal window in force when the guest joined.
	TimeoutSecs uint64 `json:"timeoutSecs,omitempty"`
	RevealedAt  int64  `json:"revealedAt,omitempty"`
	DecidedAt   int64  `json:"decidedAt,omitempty"`
	PaidAt      int64  `json:"paidAt,omitempty"`
	CanceledAt  int64  `json:"canceledAt,omitempty"`

	HostRefunded  bool `json:"hostRefunded,omitempty"`
	GuestRefunded bool `json:"guestRefunded,omitempty"`
}

func (m *Match) HasPlayer(addr string) bool {
	return addr != "" && (m.Host == addr || m.Guest == addr)
}

// State is the arena of one registry context.
type State struct {
	Context     string            `json:"context"`
	Params      Params            `json:"params"`
	NextMatchID uint64            `json:"nextMatchId"`
	Matches     map[uint64]*Match `json:"matches"`
}

func NewState(context string, params Params) *State {
	return &State{
		Context:     context,
		Params:      params,
		NextMatchID: 1,
		Matches:     map[uint64]*Match{},
	}
}

// Normalize fills defaults after decoding.
func (s *State) Normalize() {
	if s.Matches == nil {
		s.Matches = map[uint64]*Match{}
	}
	if s.NextMatchID == 0 {
		s.NextMatchID = 1
	}
}
