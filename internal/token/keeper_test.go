package token

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"onchainjanken/internal/types"
)

func newTestKeeper(t *testing.T) (*Keeper, *types.EventManager) {
	t.Helper()
	em := types.NewEventManager()
	return NewKeeper(NewState("admin", "JankenToken", "JKT"), em, log.NewNopLogger()), em
}

func TestMint_AdminOnly(t *testing.T) {
	k, em := newTestKeeper(t)

	require.NoError(t, k.Mint("admin", "host", 100))
	require.Equal(t, uint64(100), k.BalanceOf("host"))
	require.Equal(t, uint64(100), k.TotalSupply())
	require.Equal(t, types.EventTypeMinted, em.Events()[0].Type)

	err := k.Mint("host", "host", 100)
	require.ErrorIs(t, err, types.ErrNotTokenAdmin)
	require.Equal(t, "Caller is not a admin", err.Error())

	require.ErrorIs(t, k.Mint("admin", "host", 0), types.ErrInvalidAmount)
}

func TestBurn(t *testing.T) {
	k, _ := newTestKeeper(t)
	require.NoError(t, k.Mint("admin", "host", 100))

	require.NoError(t, k.Burn("admin", "host", 10))
	require.Equal(t, uint64(90), k.BalanceOf("host"))
	require.Equal(t, uint64(90), k.TotalSupply())

	require.ErrorIs(t, k.Burn("host", "host", 10), types.ErrNotTokenAdmin)
	require.ErrorIs(t, k.Burn("admin", "host", 91), types.ErrInsufficientBalance)
}

func TestTransferFrom_AllowanceCheckedFirst(t *testing.T) {
	k, _ := newTestKeeper(t)
	require.NoError(t, k.Mint("admin", "host", 10))

	// No allowance and not enough balance: the allowance error wins.
	err := k.TransferFrom("bank", "host", "bank", 50)
	require.ErrorIs(t, err, types.ErrInsufficientAllowance)
	require.Contains(t, err.Error(), "ERC20: transfer amount exceeds allowance")

	require.NoError(t, k.Approve("host", "bank", 50))
	err = k.TransferFrom("bank", "host", "bank", 50)
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	require.Contains(t, err.Error(), "ERC20: transfer amount exceeds balance")
	require.Equal(t, uint64(50), k.Allowance("host", "bank"))

	require.NoError(t, k.TransferFrom("bank", "host", "bank", 10))
	require.Equal(t, uint64(0), k.BalanceOf("host"))
	require.Equal(t, uint64(10), k.BalanceOf("bank"))
	require.Equal(t, uint64(40), k.Allowance("host", "bank"))
}

func TestTransfer(t *testing.T) {
	k, em := newTestKeeper(t)
	require.NoError(t, k.Mint("admin", "a", 5))

	require.ErrorIs(t, k.Transfer("a", "b", 6), types.ErrInsufficientBalance)
	require.NoError(t, k.Transfer("a", "b", 5))
	require.Equal(t, uint64(0), k.BalanceOf("a"))
	require.Equal(t, uint64(5), k.BalanceOf("b"))
	require.ErrorIs(t, k.Transfer("", "b", 1), types.ErrInvalidAddress)

	evs := em.Events()
	require.Equal(t, types.EventTypeTransfer, evs[len(evs)-1].Type)
}

func TestApprove_ZeroClears(t *testing.T) {
	k, _ := newTestKeeper(t)
	require.NoError(t, k.Approve("a", "b", 7))
	require.Equal(t, uint64(7), k.Allowance("a", "b"))
	require.NoError(t, k.Approve("a", "b", 0))
	require.Equal(t, uint64(0), k.Allowance("a", "b"))
	require.Empty(t, k.st.Allowances)
}
