package codec

import (
	"encoding/json"
	"fmt"

	"onchainjanken/internal/janken"
)

// TxEnvelope is the transaction container. CometBFT transactions are opaque
// bytes; this chain uses JSON-encoded envelopes.
type TxEnvelope struct {
	// Routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Auth:
	// - Nonce: decimal u64, must strictly increase per signer.
	// - Signer: account id the tx acts for.
	// - Sig: Ed25519 signature over (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// DecodeValue unmarshals the envelope payload into msg.
func DecodeValue(env TxEnvelope, msg any) error {
	if len(env.Value) == 0 {
		return fmt.Errorf("missing %s value", env.Type)
	}
	if err := json.Unmarshal(env.Value, msg); err != nil {
		return fmt.Errorf("bad %s value: %w", env.Type, err)
	}
	return nil
}

const (
	TypeRegisterAccount = "auth/register_account"

	TypeTokenMint     = "token/mint"
	TypeTokenBurn     = "token/burn"
	TypeTokenTransfer = "token/transfer"
	TypeTokenApprove  = "token/approve"

	TypeBankDeposit       = "bank/deposit"
	TypeBankWithdraw      = "bank/withdraw"
	TypeBankSettleRewards = "bank/settle_rewards"
	TypeBankSettleRefund  = "bank/settle_refund"

	TypeCreateMatch   = "janken/create_match"
	TypeJoinMatch     = "janken/join_match"
	TypeReveal        = "janken/reveal"
	TypeJudgeTimeout  = "janken/judge_timeout"
	TypeCancelMatch   = "janken/cancel_match"
	TypeChangeTimeout = "janken/change_timeout"
	TypeTransferAdmin = "janken/transfer_admin"
)

// ---- Auth ----

type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- Token ----

type TokenMintTx struct {
	Admin  string `json:"admin"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type TokenBurnTx struct {
	Admin  string `json:"admin"`
	From   string `json:"from"`
	Amount uint64 `json:"amount"`
}

type TokenTransferTx struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type TokenApproveTx struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  uint64 `json:"amount"`
}

// ---- Bank ----
//
// Context selects the registry; empty means the chain's default context.

type BankDepositTx struct {
	Context string `json:"context,omitempty"`
	User    string `json:"user"`
	Amount  uint64 `json:"amount"`
}

type BankWithdrawTx struct {
	Context string `json:"context,omitempty"`
	User    string `json:"user"`
	Amount  uint64 `json:"amount"`
}

type BankSettleRewardsTx struct {
	Context string `json:"context,omitempty"`
	Winner  string `json:"winner"`
	MatchID uint64 `json:"matchId"`
}

type BankSettleRefundTx struct {
	Context string `json:"context,omitempty"`
	User    string `json:"user"`
	MatchID uint64 `json:"matchId"`
}

// ---- Janken ----

type JankenCreateMatchTx struct {
	Context    string      `json:"context,omitempty"`
	Host       string      `json:"host"`
	BetAmount  uint64      `json:"betAmount"`
	Commitment janken.Hash `json:"commitment"` // 0x-hex keccak256(uint8(move) || salt)
}

type JankenJoinMatchTx struct {
	Context string      `json:"context,omitempty"`
	Guest   string      `json:"guest"`
	MatchID uint64      `json:"matchId"`
	Move    janken.Move `json:"move"` // rock|paper|scissors
}

type JankenRevealTx struct {
	Context string      `json:"context,omitempty"`
	Host    string      `json:"host"`
	MatchID uint64      `json:"matchId"`
	Move    janken.Move `json:"move"`
	Salt    janken.Salt `json:"salt"` // 0x-hex, at most 32 bytes
}

type JankenJudgeTimeoutTx struct {
	Context string `json:"context,omitempty"`
	Guest   string `json:"guest"`
	MatchID uint64 `json:"matchId"`
}

type JankenCancelMatchTx struct {
	Context string `json:"context,omitempty"`
	Host    string `json:"host"`
	MatchID uint64 `json:"matchId"`
}

type JankenChangeTimeoutTx struct {
	Context     string `json:"context,omitempty"`
	Admin       string `json:"admin"`
	TimeoutSecs uint64 `json:"timeoutSecs"`
}

type JankenTransferAdminTx struct {
	Context  string `json:"context,omitempty"`
	Admin    string `json:"admin"`
	NewAdmin string `json:"newAdmin"`
}
