package match

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"onchainjanken/internal/janken"
	"onchainjanken/internal/ledger"
	"onchainjanken/internal/types"
)

// Registry owns the matches of one context and is the only holder of that
// context's escrow capability.
type Registry struct {
	st      *State
	escrow  *ledger.Escrow
	nowUnix int64
	em      *types.EventManager
	logger  log.Logger
}

var _ ledger.MatchBook = (*Registry)(nil)

// NewRegistry binds st's context on l. nowUnix is the block time every
// operation of this registry observes.
func NewRegistry(st *State, l *ledger.Ledger, nowUnix int64, em *types.EventManager, logger log.Logger) (*Registry, error) {
	if st == nil {
		panic("match registry: state is nil")
	}
	if l == nil {
		panic("match registry: ledger is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	st.Normalize()
	r := &Registry{
		st:      st,
		nowUnix: nowUnix,
		em:      em,
		logger:  logger.With("module", types.ModuleName, "context", st.Context),
	}
	esc, err := l.Bind(r)
	if err != nil {
		return nil, err
	}
	r.escrow = esc
	return r, nil
}

func (r *Registry) Context() string { return r.st.Context }

func (r *Registry) Params() Params { return r.st.Params }

func (r *Registry) TimeoutSecs() uint64 { return r.st.Params.TimeoutSecs }

func (r *Registry) MinBet() uint64 { return r.st.Params.MinBet }

func (r *Registry) get(id uint64) (*Match, error) {
	m, ok := r.st.Matches[id]
	if !ok || m == nil {
		return nil, errorsmod.Wrapf(types.ErrMatchNotFound, "match %d", id)
	}
	return m, nil
}

func requireStatus(m *Match, want janken.Status) error {
	if m.Status != want {
		return errorsmod.Wrapf(types.ErrStatusInvalid, "required %s, got %s", want, m.Status)
	}
	return nil
}

func (r *Registry) emit(typ string, m *Match, attrs map[string]string) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	attrs["context"] = r.st.Context
	attrs["matchId"] = strconv.FormatUint(m.ID, 10)
	r.em.Emit(typ, attrs)
}

// CreateMatch opens a match hosted by host and locks bet from the host's
// deposit.
func (r *Registry) CreateMatch(host string, bet uint64, commitment janken.Hash) (uint64, error) {
	if host == "" {
		return 0, types.ErrHostNotAuthorized
	}
	if commitment.IsZero() {
		return 0, errorsmod.Wrap(types.ErrInvalidCommitment, "commitment must be non-zero")
	}
	if bet < r.st.Params.MinBet {
		return 0, errorsmod.Wrapf(types.ErrBelowMinimumBet, "bet %d < min %d", bet, r.st.Params.MinBet)
	}

	id := r.st.NextMatchID
	next, err := types.AddUint64Checked(id, 1, "next match id")
	if err != nil {
		return 0, err
	}
	if err := r.escrow.LockStake(id, host, bet); err != nil {
		return 0, err
	}

	m := &Match{
		ID:             id,
		Host:           host,
		BetAmount:      bet,
		HostCommitment: commitment,
		HostMove:       janken.None,
		GuestMove:      janken.None,
		Status:         janken.Created,
		CreatedAt:      r.nowUnix,
	}
	r.st.Matches[id] = m
	r.st.NextMatchID = next

	r.emit(types.EventTypeMatchCreated, m, map[string]string{
		"host":       host,
		"betAmount":  strconv.FormatUint(bet, 10),
		"commitment": commitment.String(),
	})
	r.logger.Debug("match created", "match", id, "host", host, "bet", bet)
	return id, nil
}

// JoinMatch seats guest in a created match with a visible move and locks the
// guest's stake. The registry's current timeout is captured on the match.
func (r *Registry) JoinMatch(guest string, id uint64, move janken.Move) error {
	m, err := r.get(id)
	if err != nil {
		return err
	}
	if err := requireStatus(m, janken.Created); err != nil {
		return err
	}
	if guest == "" {
		return errorsmod.Wrap(types.ErrInvalidRequest, "missing guest")
	}
	if guest == m.Host {
		return errorsmod.Wrapf(types.ErrSelfJoin, "match %d", id)
	}
	if !move.Valid() {
		return errorsmod.Wrapf(types.ErrInvalidMove, "%s", move)
	}
	if err := r.escrow.LockStake(id, guest, m.BetAmount); err != nil {
		return err
	}

	m.Guest = guest
	m.GuestMove = move
	m.JoinedAt = r.nowUnix
	m.TimeoutSecs = r.st.Params.TimeoutSecs
	m.Status = janken.Joined

	r.emit(types.EventTypeMatchJoined, m, map[string]string{
		"guest": guest,
		"move":  move.String(),
	})
	r.logger.Debug("match joined", "match", id, "guest", guest)
	return nil
}

// RevealHostMove opens the host's commitment and judges the match.
func (r *Registry) RevealHostMove(caller string, id uint64, move janken.Move, salt janken.Salt) (janken.Outcome, error) {
	m, err := r.get(id)
	if err != nil {
		return janken.Tie, err
	}
	if caller != m.Host {
		return janken.Tie, types.ErrNotHost
	}
	if err := requireStatus(m, janken.Joined); err != nil {
		return janken.Tie, err
	}
	open, err := revealWindowOpen(m, r.nowUnix)
	if err != nil {
		return janken.Tie, err
	}
	if !open {
		return janken.Tie, errorsmod.Wrapf(types.ErrTimeoutElapsed, "joined at %d, timeout %ds", m.JoinedAt, matchTimeoutSecs(m))
	}
	if !move.Valid() {
		return janken.Tie, errorsmod.Wrapf(types.ErrInvalidMove, "%s", move)
	}
	if !janken.Verify(m.HostCommitment, move, salt) {
		return janken.Tie, types.ErrCommitmentMismatch
	}
	outcome, err := janken.Judge(move, m.GuestMove)
	if err != nil {
		return janken.Tie, errorsmod.Wrap(types.ErrInvalidMove, err.Error())
	}

	m.HostMove = move
	m.RevealedAt = r.nowUnix
	m.DecidedAt = r.nowUnix
	switch outcome {
	case janken.HostWins:
		m.Winner, m.Loser = m.Host, m.Guest
		m.Status = janken.Decided
	case janken.GuestWins:
		m.Winner, m.Loser = m.Guest, m.Host
		m.Status = janken.Decided
	default:
		m.Status = janken.Tied
	}

	r.emit(types.EventTypeMatchRevealed, m, map[string]string{"move": move.String()})
	r.emitJudged(m, "reveal")
	r.logger.Debug("match judged", "match", id, "outcome", outcome.String())
	return outcome, nil
}

// JudgeTimedOut lets the guest claim a match whose host withheld the reveal
// past the window.
func (r *Registry) JudgeTimedOut(caller string, id uint64) error {
	m, err := r.get(id)
	if err != nil {
		return err
	}
	if caller == "" || caller != m.Guest {
		return types.ErrNotGuest
	}
	if err := requireStatus(m, janken.Joined); err != nil {
		return err
	}
	open, err := revealWindowOpen(m, r.nowUnix)
	if err != nil {
		return err
	}
	if open {
		return errorsmod.Wrapf(types.ErrTimeoutNotElapsed, "joined at %d, timeout %ds", m.JoinedAt, matchTimeoutSecs(m))
	}

	m.Winner, m.Loser = m.Guest, m.Host
	m.Status = janken.Decided
	m.DecidedAt = r.nowUnix

	r.emitJudged(m, "timeout")
	r.logger.Debug("match forfeited by host", "match", id)
	return nil
}

func (r *Registry) emitJudged(m *Match, reason string) {
	r.emit(types.EventTypeMatchJudged, m, map[string]string{
		"winner": m.Winner,
		"loser":  m.Loser,
		"status": m.Status.String(),
		"reason": reason,
	})
}

// CancelMatch withdraws an unjoined offer and returns the host's stake.
func (r *Registry) CancelMatch(caller string, id uint64) error {
	m, err := r.get(id)
	if err != nil {
		return err
	}
	if caller != m.Host {
		return types.ErrNotHost
	}
	if err := requireStatus(m, janken.Created); err != nil {
		return err
	}
	if _, err := r.escrow.Release(id, m.Host); err != nil {
		return err
	}
	m.Status = janken.Canceled
	m.CanceledAt = r.nowUnix

	r.emit(types.EventTypeMatchCanceled, m, map[string]string{"host": m.Host})
	return nil
}

// ChangeTimeoutSeconds updates the window granted to matches joined from now
// on. Matches already joined keep their own.
func (r *Registry) ChangeTimeoutSeconds(caller string, secs uint64) error {
	if caller == "" || caller != r.st.Params.Admin {
		return types.ErrUnauthorized
	}
	if err := validateTimeout(secs); err != nil {
		return err
	}
	prev := r.st.Params.TimeoutSecs
	r.st.Params.TimeoutSecs = secs

	r.em.Emit(types.EventTypeTimeoutChanged, map[string]string{
		"context":  r.st.Context,
		"previous": strconv.FormatUint(prev, 10),
		"timeout":  strconv.FormatUint(secs, 10),
	})
	r.logger.Info("timeout changed", "previous", prev, "timeout", secs)
	return nil
}

func (r *Registry) TransferAdmin(caller, next string) error {
	if caller == "" || caller != r.st.Params.Admin {
		return types.ErrUnauthorized
	}
	if next == "" {
		return errorsmod.Wrap(types.ErrInvalidParams, "admin must be set")
	}
	r.st.Params.Admin = next

	r.em.Emit(types.EventTypeAdminChanged, map[string]string{
		"context":  r.st.Context,
		"previous": caller,
		"admin":    next,
	})
	r.logger.Info("admin transferred", "previous", caller, "admin", next)
	return nil
}
