package app

import (
	"encoding/base64"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"onchainjanken/internal/codec"
	"onchainjanken/internal/janken"
	"onchainjanken/internal/state"
	"onchainjanken/internal/types"
)

var txTypes = map[string]bool{
	codec.TypeRegisterAccount:   true,
	codec.TypeTokenMint:         true,
	codec.TypeTokenBurn:         true,
	codec.TypeTokenTransfer:     true,
	codec.TypeTokenApprove:      true,
	codec.TypeBankDeposit:       true,
	codec.TypeBankWithdraw:      true,
	codec.TypeBankSettleRewards: true,
	codec.TypeBankSettleRefund:  true,
	codec.TypeCreateMatch:       true,
	codec.TypeJoinMatch:         true,
	codec.TypeReveal:            true,
	codec.TypeJudgeTimeout:      true,
	codec.TypeCancelMatch:       true,
	codec.TypeChangeTimeout:     true,
	codec.TypeTransferAdmin:     true,
}

func knownTxType(typ string) bool { return txTypes[typ] }

func errResult(err error) *abci.ExecTxResult {
	space, code, logMsg := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Codespace: space, Code: code, Log: logMsg}
}

// deliverTx runs one tx against a staged copy of state. The copy replaces the
// live state only when every step succeeded.
func (a *JankenApp) deliverTx(txBytes []byte, height int64, nowUnix int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return errResult(errorsmod.Wrap(types.ErrInvalidTx, err.Error()))
	}
	if !knownTxType(env.Type) {
		return errResult(errorsmod.Wrapf(types.ErrUnknownTxType, "%q", env.Type))
	}

	staged, err := a.st.Clone()
	if err != nil {
		return errResult(err)
	}
	em := types.NewEventManager()
	if err := a.execTx(staged, env, nowUnix, em); err != nil {
		a.logger.Debug("tx rejected", "height", height, "type", env.Type, "signer", env.Signer, "err", err)
		return errResult(err)
	}
	a.st = staged
	return &abci.ExecTxResult{Code: abci.CodeTypeOK, Events: em.Events()}
}

// authorize verifies env was signed by actor and consumes its nonce.
func authorize(st *state.State, env codec.TxEnvelope, actor string) error {
	if err := requireAccountAuth(st, env, actor); err != nil {
		return err
	}
	return consumeNonce(st, env)
}

func (a *JankenApp) execTx(st *state.State, env codec.TxEnvelope, nowUnix int64, em *types.EventManager) error {
	if env.Type == codec.TypeRegisterAccount {
		var msg codec.AuthRegisterAccountTx
		if err := codec.DecodeValue(env, &msg); err != nil {
			return errorsmod.Wrap(types.ErrInvalidTx, err.Error())
		}
		if err := requireRegisterAccountAuth(st, env, msg); err != nil {
			return err
		}
		if err := consumeNonce(st, env); err != nil {
			return err
		}
		st.AccountKeys[msg.Account] = append([]byte(nil), msg.PubKey...)
		em.Emit(types.EventTypeAccountRegistered, map[string]string{
			"account": msg.Account,
			"pubKey":  base64.StdEncoding.EncodeToString(msg.PubKey),
		})
		return nil
	}

	k, err := newKeepers(st, nowUnix, em, a.logger)
	if err != nil {
		return err
	}

	switch env.Type {
	case codec.TypeTokenMint:
		var msg codec.TokenMintTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Admin); err != nil {
			return err
		}
		return k.token.Mint(msg.Admin, msg.To, msg.Amount)

	case codec.TypeTokenBurn:
		var msg codec.TokenBurnTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Admin); err != nil {
			return err
		}
		if types.IsReservedAccount(msg.From) {
			return errorsmod.Wrapf(types.ErrReservedAccount, "cannot burn from %q", msg.From)
		}
		return k.token.Burn(msg.Admin, msg.From, msg.Amount)

	case codec.TypeTokenTransfer:
		var msg codec.TokenTransferTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.From); err != nil {
			return err
		}
		if msg.Amount == 0 {
			return errorsmod.Wrap(types.ErrInvalidAmount, "amount must be > 0")
		}
		return k.token.Transfer(msg.From, msg.To, msg.Amount)

	case codec.TypeTokenApprove:
		var msg codec.TokenApproveTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Owner); err != nil {
			return err
		}
		return k.token.Approve(msg.Owner, msg.Spender, msg.Amount)

	case codec.TypeBankDeposit:
		var msg codec.BankDepositTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.User); err != nil {
			return err
		}
		return k.ledger.Deposit(k.context(msg.Context), msg.User, msg.Amount)

	case codec.TypeBankWithdraw:
		var msg codec.BankWithdrawTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.User); err != nil {
			return err
		}
		return k.ledger.Withdraw(k.context(msg.Context), msg.User, msg.Amount)

	case codec.TypeBankSettleRewards:
		var msg codec.BankSettleRewardsTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Winner); err != nil {
			return err
		}
		return k.ledger.SettleRewards(k.context(msg.Context), msg.MatchID, msg.Winner)

	case codec.TypeBankSettleRefund:
		var msg codec.BankSettleRefundTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.User); err != nil {
			return err
		}
		return k.ledger.SettleRefund(k.context(msg.Context), msg.MatchID, msg.User)

	case codec.TypeCreateMatch:
		var msg codec.JankenCreateMatchTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Host); err != nil {
			return err
		}
		r, err := k.registry(msg.Context)
		if err != nil {
			return err
		}
		_, err = r.CreateMatch(msg.Host, msg.BetAmount, msg.Commitment)
		return err

	case codec.TypeJoinMatch:
		msg := codec.JankenJoinMatchTx{Move: janken.None}
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Guest); err != nil {
			return err
		}
		r, err := k.registry(msg.Context)
		if err != nil {
			return err
		}
		return r.JoinMatch(msg.Guest, msg.MatchID, msg.Move)

	case codec.TypeReveal:
		msg := codec.JankenRevealTx{Move: janken.None}
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Host); err != nil {
			return err
		}
		r, err := k.registry(msg.Context)
		if err != nil {
			return err
		}
		_, err = r.RevealHostMove(msg.Host, msg.MatchID, msg.Move, msg.Salt)
		return err

	case codec.TypeJudgeTimeout:
		var msg codec.JankenJudgeTimeoutTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Guest); err != nil {
			return err
		}
		r, err := k.registry(msg.Context)
		if err != nil {
			return err
		}
		return r.JudgeTimedOut(msg.Guest, msg.MatchID)

	case codec.TypeCancelMatch:
		var msg codec.JankenCancelMatchTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Host); err != nil {
			return err
		}
		r, err := k.registry(msg.Context)
		if err != nil {
			return err
		}
		return r.CancelMatch(msg.Host, msg.MatchID)

	case codec.TypeChangeTimeout:
		var msg codec.JankenChangeTimeoutTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Admin); err != nil {
			return err
		}
		r, err := k.registry(msg.Context)
		if err != nil {
			return err
		}
		return r.ChangeTimeoutSeconds(msg.Admin, msg.TimeoutSecs)

	case codec.TypeTransferAdmin:
		var msg codec.JankenTransferAdminTx
		if err := decode(env, &msg); err != nil {
			return err
		}
		if err := authorize(st, env, msg.Admin); err != nil {
			return err
		}
		if _, ok := st.AccountKeys[msg.NewAdmin]; !ok {
			return errorsmod.Wrapf(types.ErrUnknownAccount, "new admin %q must register first", msg.NewAdmin)
		}
		r, err := k.registry(msg.Context)
		if err != nil {
			return err
		}
		return r.TransferAdmin(msg.Admin, msg.NewAdmin)

	default:
		return errorsmod.Wrapf(types.ErrUnknownTxType, "%q", env.Type)
	}
}

func decode(env codec.TxEnvelope, msg any) error {
	if err := codec.DecodeValue(env, msg); err != nil {
		return errorsmod.Wrap(types.ErrInvalidTx, err.Error())
	}
	return nil
}
