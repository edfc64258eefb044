package types

import (
	"sort"

	abci "github.com/cometbft/cometbft/abci/types"
)

// Event types.
const (
	EventTypeMatchCreated   = "MatchCreated"
	EventTypeMatchJoined    = "MatchJoined"
	EventTypeMatchRevealed  = "MatchRevealed"
	EventTypeMatchJudged    = "MatchJudged"
	EventTypeMatchCanceled  = "MatchCanceled"
	EventTypeMatchPaid      = "MatchPaid"
	EventTypeTimeoutChanged = "TimeoutChanged"
	EventTypeAdminChanged   = "AdminTransferred"

	EventTypeDeposited     = "Deposited"
	EventTypeWithdrawn     = "Withdrawn"
	EventTypeStakeLocked   = "StakeLocked"
	EventTypeStakeReleased = "StakeReleased"
	EventTypeRewardsPaid   = "RewardsPaid"
	EventTypeRefundPaid    = "RefundPaid"

	EventTypeTransfer = "Transfer"
	EventTypeApproval = "Approval"
	EventTypeMinted   = "Minted"
	EventTypeBurned   = "Burned"

	EventTypeAccountRegistered = "AccountRegistered"
)

// EventManager collects the events of a single transaction. Keepers emit into
// it and the app attaches the result to the tx only when execution succeeds.
type EventManager struct {
	events []abci.Event
}

func NewEventManager() *EventManager { return &EventManager{} }

func (em *EventManager) Emit(typ string, attrs map[string]string) {
	if em == nil {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]abci.EventAttribute, 0, len(keys))
	for _, k := range keys {
		out = append(out, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	em.events = append(em.events, abci.Event{Type: typ, Attributes: out})
}

func (em *EventManager) Events() []abci.Event {
	if em == nil {
		return nil
	}
	return em.events
}
