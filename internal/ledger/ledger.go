package ledger

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"onchainjanken/internal/janken"
	"onchainjanken/internal/types"
)

// Ledger is the only component that moves tokens into or out of custody.
// Balances are partitioned by context; nothing crosses contexts.
type Ledger struct {
	st      *State
	token   Token
	custody string
	books   map[string]MatchBook
	em      *types.EventManager
	logger  log.Logger
}

func New(st *State, token Token, custody string, em *types.EventManager, logger log.Logger) *Ledger {
	if st == nil {
		panic("ledger: state is nil")
	}
	if token == nil {
		panic("ledger: token is nil")
	}
	if custody == "" {
		panic("ledger: custody address is empty")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	st.Normalize()
	return &Ledger{
		st:      st,
		token:   token,
		custody: custody,
		books:   map[string]MatchBook{},
		em:      em,
		logger:  logger.With("module", types.BankModuleName),
	}
}

// Bind registers book as the owner of its context and hands back the escrow
// capability. Each context can be bound once per ledger instance.
func (l *Ledger) Bind(book MatchBook) (*Escrow, error) {
	if book == nil || book.Context() == "" {
		return nil, errorsmod.Wrap(types.ErrUnknownContext, "empty context")
	}
	ctx := book.Context()
	if _, ok := l.books[ctx]; ok {
		return nil, errorsmod.Wrapf(types.ErrContextBound, "context %q", ctx)
	}
	l.books[ctx] = book
	return &Escrow{l: l, context: ctx}, nil
}

func (l *Ledger) CustodyAddress() string { return l.custody }

func (l *Ledger) book(ctx string) (MatchBook, error) {
	b, ok := l.books[ctx]
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrUnknownContext, "context %q", ctx)
	}
	return b, nil
}

// Deposit pulls amount from user's token balance into custody. Internal
// accounting is credited first and rolled back if the pull is rejected.
func (l *Ledger) Deposit(ctx, user string, amount uint64) error {
	if _, err := l.book(ctx); err != nil {
		return err
	}
	if user == "" {
		return errorsmod.Wrap(types.ErrInvalidRequest, "missing user")
	}
	if amount == 0 {
		return errorsmod.Wrap(types.ErrInvalidRequest, "amount must be > 0")
	}

	prevDep := l.st.deposit(ctx, user)
	prevCustody := l.st.Custody[ctx]
	nextDep, err := types.AddUint64Checked(prevDep, amount, "deposit")
	if err != nil {
		return err
	}
	nextCustody, err := types.AddUint64Checked(prevCustody, amount, "custody")
	if err != nil {
		return err
	}
	l.st.setDeposit(ctx, user, nextDep)
	l.st.setCustody(ctx, nextCustody)

	if err := l.token.TransferFrom(l.custody, user, l.custody, amount); err != nil {
		l.st.setDeposit(ctx, user, prevDep)
		l.st.setCustody(ctx, prevCustody)
		return err
	}

	l.em.Emit(types.EventTypeDeposited, map[string]string{
		"context": ctx,
		"user":    user,
		"amount":  strconv.FormatUint(amount, 10),
		"balance": strconv.FormatUint(nextDep, 10),
	})
	l.logger.Debug("deposit", "context", ctx, "user", user, "amount", amount)
	return nil
}

// Withdraw pushes amount of user's spendable deposit back to their token
// balance. Accounting is debited only after the transfer succeeded.
func (l *Ledger) Withdraw(ctx, user string, amount uint64) error {
	if _, err := l.book(ctx); err != nil {
		return err
	}
	if user == "" {
		return errorsmod.Wrap(types.ErrInvalidRequest, "missing user")
	}
	if amount == 0 {
		return errorsmod.Wrap(types.ErrInvalidRequest, "amount must be > 0")
	}
	dep := l.st.deposit(ctx, user)
	if dep < amount {
		return errorsmod.Wrapf(types.ErrInsufficientDeposit, "deposit %d < %d", dep, amount)
	}
	custody := l.st.Custody[ctx]
	if custody < amount {
		return errorsmod.Wrapf(types.ErrInsufficientDeposit, "context custody %d < %d", custody, amount)
	}

	if err := l.token.Transfer(l.custody, user, amount); err != nil {
		return err
	}
	l.st.setDeposit(ctx, user, dep-amount)
	l.st.setCustody(ctx, custody-amount)

	l.em.Emit(types.EventTypeWithdrawn, map[string]string{
		"context": ctx,
		"user":    user,
		"amount":  strconv.FormatUint(amount, 10),
		"balance": strconv.FormatUint(dep-amount, 10),
	})
	l.logger.Debug("withdraw", "context", ctx, "user", user, "amount", amount)
	return nil
}

// SettleRewards pays both stakes of a decided match to its winner.
func (l *Ledger) SettleRewards(ctx string, matchID uint64, caller string) error {
	book, err := l.book(ctx)
	if err != nil {
		return err
	}
	s, err := book.Settlement(matchID)
	if err != nil {
		return err
	}
	if s.Status != janken.Decided {
		return errorsmod.Wrapf(types.ErrStatusInvalid, "required %s, got %s", janken.Decided, s.Status)
	}
	if caller == "" || caller != s.Winner {
		return errorsmod.Wrapf(types.ErrNotWinner, "winner is %s", s.Winner)
	}

	winStake := l.st.stake(ctx, matchID, s.Winner)
	loseStake := l.st.stake(ctx, matchID, s.Loser)
	if winStake != s.Bet || loseStake != s.Bet {
		return errorsmod.Wrapf(types.ErrStakeMismatch, "stakes %d/%d, bet %d", winStake, loseStake, s.Bet)
	}
	payout, err := types.MulUint64Checked(s.Bet, 2, "payout")
	if err != nil {
		return err
	}
	nextDep, err := types.AddUint64Checked(l.st.deposit(ctx, s.Winner), payout, "deposit")
	if err != nil {
		return err
	}
	if err := book.MarkPaid(matchID); err != nil {
		return err
	}

	l.st.setStake(ctx, matchID, s.Winner, 0)
	l.st.setStake(ctx, matchID, s.Loser, 0)
	l.st.setDeposit(ctx, s.Winner, nextDep)

	l.em.Emit(types.EventTypeRewardsPaid, map[string]string{
		"context": ctx,
		"matchId": strconv.FormatUint(matchID, 10),
		"winner":  s.Winner,
		"amount":  strconv.FormatUint(payout, 10),
	})
	l.logger.Debug("rewards settled", "context", ctx, "match", matchID, "winner", s.Winner, "amount", payout)
	return nil
}

// SettleRefund returns caller's own stake of a tied match. Each party
// reclaims independently; the match is paid once both did.
func (l *Ledger) SettleRefund(ctx string, matchID uint64, caller string) error {
	book, err := l.book(ctx)
	if err != nil {
		return err
	}
	s, err := book.Settlement(matchID)
	if err != nil {
		return err
	}
	if s.Status != janken.Tied {
		return errorsmod.Wrapf(types.ErrStatusInvalid, "required %s, got %s", janken.Tied, s.Status)
	}
	if !s.IsParticipant(caller) {
		return errorsmod.Wrapf(types.ErrNotParticipant, "%s is neither host nor guest", caller)
	}
	if s.Refunded(caller) {
		return errorsmod.Wrapf(types.ErrAlreadyRefunded, "%s already reclaimed", caller)
	}
	staked := l.st.stake(ctx, matchID, caller)
	if staked != s.Bet {
		return errorsmod.Wrapf(types.ErrStakeMismatch, "stake %d, bet %d", staked, s.Bet)
	}
	nextDep, err := types.AddUint64Checked(l.st.deposit(ctx, caller), staked, "deposit")
	if err != nil {
		return err
	}
	paid, err := book.MarkRefunded(matchID, caller)
	if err != nil {
		return err
	}

	l.st.setStake(ctx, matchID, caller, 0)
	l.st.setDeposit(ctx, caller, nextDep)

	l.em.Emit(types.EventTypeRefundPaid, map[string]string{
		"context": ctx,
		"matchId": strconv.FormatUint(matchID, 10),
		"user":    caller,
		"amount":  strconv.FormatUint(staked, 10),
		"paid":    strconv.FormatBool(paid),
	})
	l.logger.Debug("refund settled", "context", ctx, "match", matchID, "user", caller, "paid", paid)
	return nil
}

func (l *Ledger) DepositOf(ctx, user string) uint64 { return l.st.deposit(ctx, user) }

func (l *Ledger) StakeOf(ctx string, matchID uint64, user string) uint64 {
	return l.st.stake(ctx, matchID, user)
}

func (l *Ledger) Custody(ctx string) uint64 { return l.st.Custody[ctx] }
