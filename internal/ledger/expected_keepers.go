package ledger

import "onchainjanken/internal/janken"

// Token is the fungible token primitive custody is held in.
type Token interface {
	TransferFrom(spender, owner, to string, amount uint64) error
	Transfer(from, to string, amount uint64) error
	BalanceOf(addr string) uint64
}

// MatchBook is implemented by the registry that owns a context. The ledger
// reads match outcomes through it and reports settlement back.
type MatchBook interface {
	Context() string
	Settlement(matchID uint64) (Settlement, error)
	// MarkRefunded records that user reclaimed a tie stake and reports
	// whether the match is now fully paid.
	MarkRefunded(matchID uint64, user string) (paid bool, err error)
	MarkPaid(matchID uint64) error
}

// Settlement is the view of a match the ledger needs to pay it out.
type Settlement struct {
	MatchID       uint64
	Status        janken.Status
	Host          string
	Guest         string
	Winner        string
	Loser         string
	Bet           uint64
	HostRefunded  bool
	GuestRefunded bool
}

func (s Settlement) IsParticipant(user string) bool {
	return user != "" && (user == s.Host || user == s.Guest)
}

func (s Settlement) Refunded(user string) bool {
	switch user {
	case s.Host:
		return s.HostRefunded
	case s.Guest:
		return s.GuestRefunded
	default:
		return false
	}
}
