package app

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"onchainjanken/internal/janken"
	"onchainjanken/internal/match"
	"onchainjanken/internal/types"
)

// Query serves read-only JSON views of the committed state.
//
// Paths (all accept ?context=<id> to pick a non-default registry):
//   - /match/<id>
//   - /matches?status=&player=&after=&limit=
//   - /deposit/<user>
//   - /stake/<matchId>/<user>
//   - /timeout
//   - /params
//   - /totals
//   - /custody
//   - /token/balance/<addr>
//   - /token/allowance/<owner>/<spender>
//   - /token/info
//   - /account/<addr>
func (a *JankenApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, err := a.query(strings.TrimSpace(req.Path))
	if err != nil {
		space, code, logMsg := errorsmod.ABCIInfo(err, false)
		return &abci.QueryResponse{Codespace: space, Code: code, Log: logMsg, Height: a.st.Height}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return &abci.QueryResponse{Code: 1, Log: "encode response", Height: a.st.Height}, nil
	}
	return &abci.QueryResponse{Code: abci.CodeTypeOK, Value: b, Height: a.st.Height}, nil
}

func (a *JankenApp) query(raw string) (any, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidRequest, "bad query path %q", raw)
	}
	q := u.Query()
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	k, err := newKeepers(a.st, a.st.BlockTime, nil, a.logger)
	if err != nil {
		return nil, err
	}
	ctx := k.context(q.Get("context"))

	switch {
	case len(parts) == 2 && parts[0] == "match":
		id, err := parseID(parts[1])
		if err != nil {
			return nil, err
		}
		r, err := k.registry(ctx)
		if err != nil {
			return nil, err
		}
		return r.Match(id)

	case len(parts) == 1 && parts[0] == "matches":
		r, err := k.registry(ctx)
		if err != nil {
			return nil, err
		}
		f, err := parseFilter(q)
		if err != nil {
			return nil, err
		}
		return r.Matches(f), nil

	case len(parts) == 2 && parts[0] == "deposit":
		return map[string]any{"context": ctx, "user": parts[1], "deposit": k.ledger.DepositOf(ctx, parts[1])}, nil

	case len(parts) == 3 && parts[0] == "stake":
		id, err := parseID(parts[1])
		if err != nil {
			return nil, err
		}
		return map[string]any{"context": ctx, "matchId": id, "user": parts[2], "stake": k.ledger.StakeOf(ctx, id, parts[2])}, nil

	case len(parts) == 1 && parts[0] == "timeout":
		r, err := k.registry(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"context": ctx, "timeoutSecs": r.TimeoutSecs()}, nil

	case len(parts) == 1 && parts[0] == "params":
		r, err := k.registry(ctx)
		if err != nil {
			return nil, err
		}
		return r.Params(), nil

	case len(parts) == 1 && parts[0] == "totals":
		t := k.ledger.Totals(ctx)
		return map[string]any{"totals": t, "balanced": t.Balanced(), "solvent": k.ledger.Solvent()}, nil

	case len(parts) == 1 && parts[0] == "custody":
		return map[string]any{
			"address": types.CustodyAddress,
			"balance": k.token.BalanceOf(types.CustodyAddress),
			"context": ctx,
			"custody": k.ledger.Custody(ctx),
		}, nil

	case len(parts) == 3 && parts[0] == "token" && parts[1] == "balance":
		return map[string]any{"addr": parts[2], "balance": k.token.BalanceOf(parts[2])}, nil

	case len(parts) == 4 && parts[0] == "token" && parts[1] == "allowance":
		return map[string]any{"owner": parts[2], "spender": parts[3], "allowance": k.token.Allowance(parts[2], parts[3])}, nil

	case len(parts) == 2 && parts[0] == "token" && parts[1] == "info":
		return map[string]any{
			"name":   k.token.Name(),
			"symbol": k.token.Symbol(),
			"admin":  k.token.Admin(),
			"supply": k.token.TotalSupply(),
		}, nil

	case len(parts) == 2 && parts[0] == "account":
		_, registered := a.st.AccountKeys[parts[1]]
		return map[string]any{"addr": parts[1], "registered": registered, "nonce": a.st.NonceMax[parts[1]]}, nil

	default:
		return nil, errorsmod.Wrapf(types.ErrInvalidRequest, "unknown query path %q", raw)
	}
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidRequest, "invalid match id %q", s)
	}
	return id, nil
}

func parseFilter(q url.Values) (match.Filter, error) {
	f := match.Filter{Player: q.Get("player")}
	if s := q.Get("status"); s != "" {
		st, err := janken.ParseStatus(s)
		if err != nil {
			return f, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
		}
		f.Status = &st
	}
	if s := q.Get("after"); s != "" {
		after, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return f, errorsmod.Wrapf(types.ErrInvalidRequest, "invalid after %q", s)
		}
		f.StartAfter = after
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return f, errorsmod.Wrapf(types.ErrInvalidRequest, "invalid limit %q", s)
		}
		f.Limit = limit
	}
	return f, nil
}
