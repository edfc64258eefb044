package app

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"onchainjanken/internal/ledger"
	"onchainjanken/internal/match"
	"onchainjanken/internal/state"
	"onchainjanken/internal/token"
	"onchainjanken/internal/types"
)

// keepers is the component set wired over one state for one tx (or query).
type keepers struct {
	token      *token.Keeper
	ledger     *ledger.Ledger
	registries map[string]*match.Registry
	defaultCtx string
}

func newKeepers(st *state.State, nowUnix int64, em *types.EventManager, logger log.Logger) (*keepers, error) {
	tk := token.NewKeeper(st.Token, em, logger)
	l := ledger.New(st.Bank, tk, types.CustodyAddress, em, logger)

	k := &keepers{
		token:      tk,
		ledger:     l,
		registries: make(map[string]*match.Registry, len(st.Registries)),
		defaultCtx: st.DefaultContext,
	}
	for _, ctx := range st.Contexts() {
		r, err := match.NewRegistry(st.Registries[ctx], l, nowUnix, em, logger)
		if err != nil {
			return nil, err
		}
		k.registries[ctx] = r
	}
	return k, nil
}

func (k *keepers) context(ctx string) string {
	if ctx == "" {
		return k.defaultCtx
	}
	return ctx
}

func (k *keepers) registry(ctx string) (*match.Registry, error) {
	r, ok := k.registries[k.context(ctx)]
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrUnknownContext, "context %q", ctx)
	}
	return r, nil
}
