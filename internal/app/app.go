package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	dbm "github.com/cosmos/cosmos-db"

	"onchainjanken/internal/codec"
	"onchainjanken/internal/state"
	"onchainjanken/internal/types"
)

const (
	AppVersion uint64 = 1
	appName           = "janken"
)

type JankenApp struct {
	*abci.BaseApplication

	db      dbm.DB
	genesis state.Genesis
	logger  log.Logger

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

// New restores the last committed state from db, or seeds one from genesis
// when db is empty.
func New(db dbm.DB, genesis state.Genesis, logger log.Logger) (*JankenApp, error) {
	if db == nil {
		return nil, fmt.Errorf("app: db is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	st, found, err := state.Load(db)
	if err != nil {
		return nil, err
	}
	if !found {
		st, err = state.NewState(genesis)
		if err != nil {
			return nil, err
		}
	}
	a := &JankenApp{
		BaseApplication: abci.NewBaseApplication(),
		db:              db,
		genesis:         genesis,
		logger:          logger.With("module", "app"),
		st:              st,
		lastHash:        st.AppHash(),
	}
	a.logger.Info("state loaded", "height", st.Height, "restored", found, "contexts", st.Contexts())
	return a, nil
}

func (a *JankenApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             appName,
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

// CheckTx only validates structure; authorization runs against the staged
// state in FinalizeBlock.
func (a *JankenApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return checkErr(errorsmod.Wrap(types.ErrInvalidTx, err.Error())), nil
	}
	if !knownTxType(env.Type) {
		return checkErr(errorsmod.Wrapf(types.ErrUnknownTxType, "%q", env.Type)), nil
	}
	if err := requireSignedEnvelope(env); err != nil {
		return checkErr(err), nil
	}
	return &abci.CheckTxResponse{Code: abci.CodeTypeOK}, nil
}

func checkErr(err error) *abci.CheckTxResponse {
	space, code, logMsg := errorsmod.ABCIInfo(err, false)
	return &abci.CheckTxResponse{Codespace: space, Code: code, Log: logMsg}
}

// InitChain replaces the seeded state with app_state from the genesis file
// when one is provided.
func (a *JankenApp) InitChain(_ context.Context, req *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(req.AppStateBytes) > 0 {
		g := a.genesis
		if err := json.Unmarshal(req.AppStateBytes, &g); err != nil {
			return nil, fmt.Errorf("decode app_state: %w", err)
		}
		st, err := state.NewState(g)
		if err != nil {
			return nil, err
		}
		a.st = st
	}
	a.st.BlockTime = req.Time.Unix()
	a.lastHash = a.st.AppHash()
	a.logger.Info("chain initialized", "chain_id", req.ChainId, "default_context", a.st.DefaultContext)
	return &abci.InitChainResponse{AppHash: a.lastHash}, nil
}

func (a *JankenApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	nowUnix := req.Time.Unix()
	a.st.Height = req.Height
	a.st.BlockTime = nowUnix

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		txResults = append(txResults, a.deliverTx(txBytes, req.Height, nowUnix))
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *JankenApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.st.Save(a.db); err != nil {
		// CometBFT expects Commit to not crash; return error so node halts loudly.
		return nil, err
	}
	return &abci.CommitResponse{}, nil
}
