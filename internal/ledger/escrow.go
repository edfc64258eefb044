package ledger

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"

	"onchainjanken/internal/types"
)

// Escrow is the stake capability of the registry bound to one context.
// Users never reach it directly.
type Escrow struct {
	l       *Ledger
	context string
}

func (e *Escrow) Context() string { return e.context }

func (e *Escrow) Available(user string) uint64 { return e.l.st.deposit(e.context, user) }

// LockStake moves amount of user's deposit into the stake of matchID.
func (e *Escrow) LockStake(matchID uint64, user string, amount uint64) error {
	if amount == 0 {
		return errorsmod.Wrap(types.ErrInvalidRequest, "stake must be > 0")
	}
	st := e.l.st
	dep := st.deposit(e.context, user)
	if dep < amount {
		return errorsmod.Wrapf(types.ErrInsufficientDeposit, "deposit %d < %d", dep, amount)
	}
	next, err := types.AddUint64Checked(st.stake(e.context, matchID, user), amount, "stake")
	if err != nil {
		return err
	}
	st.setDeposit(e.context, user, dep-amount)
	st.setStake(e.context, matchID, user, next)

	e.l.em.Emit(types.EventTypeStakeLocked, map[string]string{
		"context": e.context,
		"matchId": strconv.FormatUint(matchID, 10),
		"user":    user,
		"amount":  strconv.FormatUint(amount, 10),
	})
	return nil
}

// Release returns user's whole stake in matchID to their deposit.
func (e *Escrow) Release(matchID uint64, user string) (uint64, error) {
	st := e.l.st
	staked := st.stake(e.context, matchID, user)
	if staked == 0 {
		return 0, nil
	}
	next, err := types.AddUint64Checked(st.deposit(e.context, user), staked, "deposit")
	if err != nil {
		return 0, err
	}
	st.setStake(e.context, matchID, user, 0)
	st.setDeposit(e.context, user, next)

	e.l.em.Emit(types.EventTypeStakeReleased, map[string]string{
		"context": e.context,
		"matchId": strconv.FormatUint(matchID, 10),
		"user":    user,
		"amount":  strconv.FormatUint(staked, 10),
	})
	return staked, nil
}
