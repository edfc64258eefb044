package token

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"onchainjanken/internal/types"
)

type Keeper struct {
	st     *State
	em     *types.EventManager
	logger log.Logger
}

func NewKeeper(st *State, em *types.EventManager, logger log.Logger) *Keeper {
	if st == nil {
		panic("token keeper: state is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	st.Normalize()
	return &Keeper{st: st, em: em, logger: logger.With("module", types.TokenModuleName)}
}

func (k *Keeper) Name() string        { return k.st.Name }
func (k *Keeper) Symbol() string      { return k.st.Symbol }
func (k *Keeper) Admin() string       { return k.st.Admin }
func (k *Keeper) TotalSupply() uint64 { return k.st.Supply }

func (k *Keeper) BalanceOf(addr string) uint64 { return k.st.Balances[addr] }

func (k *Keeper) Allowance(owner, spender string) uint64 {
	return k.st.Allowances[owner][spender]
}

func (k *Keeper) Mint(caller, to string, amount uint64) error {
	if caller != k.st.Admin {
		return types.ErrNotTokenAdmin
	}
	if to == "" {
		return errorsmod.Wrap(types.ErrInvalidAddress, "missing recipient")
	}
	if amount == 0 {
		return errorsmod.Wrap(types.ErrInvalidAmount, "amount must be > 0")
	}
	supply, err := types.AddUint64Checked(k.st.Supply, amount, "supply")
	if err != nil {
		return err
	}
	bal, err := types.AddUint64Checked(k.st.Balances[to], amount, "balance")
	if err != nil {
		return err
	}
	k.st.Supply = supply
	k.st.Balances[to] = bal

	k.em.Emit(types.EventTypeMinted, map[string]string{
		"to":     to,
		"amount": strconv.FormatUint(amount, 10),
	})
	k.logger.Debug("minted", "to", to, "amount", amount)
	return nil
}

func (k *Keeper) Burn(caller, from string, amount uint64) error {
	if caller != k.st.Admin {
		return types.ErrNotTokenAdmin
	}
	if amount == 0 {
		return errorsmod.Wrap(types.ErrInvalidAmount, "amount must be > 0")
	}
	if err := k.debit(from, amount); err != nil {
		return err
	}
	k.st.Supply -= amount

	k.em.Emit(types.EventTypeBurned, map[string]string{
		"from":   from,
		"amount": strconv.FormatUint(amount, 10),
	})
	return nil
}

func (k *Keeper) Transfer(from, to string, amount uint64) error {
	if from == "" || to == "" {
		return errorsmod.Wrap(types.ErrInvalidAddress, "missing sender or recipient")
	}
	if err := k.move(from, to, amount); err != nil {
		return err
	}
	k.emitTransfer(from, to, amount)
	return nil
}

func (k *Keeper) Approve(owner, spender string, amount uint64) error {
	if owner == "" || spender == "" {
		return errorsmod.Wrap(types.ErrInvalidAddress, "missing owner or spender")
	}
	m := k.st.Allowances[owner]
	if m == nil {
		m = map[string]uint64{}
		k.st.Allowances[owner] = m
	}
	if amount == 0 {
		delete(m, spender)
		if len(m) == 0 {
			delete(k.st.Allowances, owner)
		}
	} else {
		m[spender] = amount
	}

	k.em.Emit(types.EventTypeApproval, map[string]string{
		"owner":   owner,
		"spender": spender,
		"amount":  strconv.FormatUint(amount, 10),
	})
	return nil
}

// TransferFrom moves owner's tokens on behalf of spender. The allowance is
// checked before the balance.
func (k *Keeper) TransferFrom(spender, owner, to string, amount uint64) error {
	if owner == "" || to == "" || spender == "" {
		return errorsmod.Wrap(types.ErrInvalidAddress, "missing owner, spender or recipient")
	}
	allowed := k.Allowance(owner, spender)
	if allowed < amount {
		return errorsmod.Wrapf(types.ErrInsufficientAllowance, "allowance %d < %d", allowed, amount)
	}
	if err := k.move(owner, to, amount); err != nil {
		return err
	}
	if amount > 0 {
		left := allowed - amount
		if left == 0 {
			delete(k.st.Allowances[owner], spender)
			if len(k.st.Allowances[owner]) == 0 {
				delete(k.st.Allowances, owner)
			}
		} else {
			k.st.Allowances[owner][spender] = left
		}
	}
	k.emitTransfer(owner, to, amount)
	return nil
}

func (k *Keeper) move(from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	bal := k.st.Balances[from]
	if bal < amount {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "balance %d < %d", bal, amount)
	}
	if from == to {
		return nil
	}
	next, err := types.AddUint64Checked(k.st.Balances[to], amount, "balance")
	if err != nil {
		return err
	}
	k.setBalance(from, bal-amount)
	k.st.Balances[to] = next
	return nil
}

func (k *Keeper) debit(addr string, amount uint64) error {
	bal := k.st.Balances[addr]
	if bal < amount {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "balance %d < %d", bal, amount)
	}
	k.setBalance(addr, bal-amount)
	return nil
}

func (k *Keeper) setBalance(addr string, v uint64) {
	if v == 0 {
		delete(k.st.Balances, addr)
		return
	}
	k.st.Balances[addr] = v
}

func (k *Keeper) emitTransfer(from, to string, amount uint64) {
	k.em.Emit(types.EventTypeTransfer, map[string]string{
		"from":   from,
		"to":     to,
		"amount": strconv.FormatUint(amount, 10),
	})
}
