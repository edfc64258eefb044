package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"strconv"

	errorsmod "cosmossdk.io/errors"

	"onchainjanken/internal/codec"
	"onchainjanken/internal/state"
	"onchainjanken/internal/types"
)

const txAuthDomainV1 = "janken/tx/v1"

func txAuthSignBytesV1(typ string, value []byte, nonce string, signer string) []byte {
	// signBytes = DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(txAuthDomainV1)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(txAuthDomainV1)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return errorsmod.Wrap(types.ErrInvalidTx, "missing tx.nonce")
	}
	if _, err := strconv.ParseUint(env.Nonce, 10, 64); err != nil {
		return errorsmod.Wrapf(types.ErrInvalidTx, "tx.nonce must be a decimal u64: %q", env.Nonce)
	}
	if env.Signer == "" {
		return errorsmod.Wrap(types.ErrInvalidTx, "missing tx.signer")
	}
	if len(env.Sig) == 0 {
		return errorsmod.Wrap(types.ErrInvalidTx, "missing tx.sig")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return errorsmod.Wrapf(types.ErrInvalidTx, "invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

func verifyEnvelope(pub ed25519.PublicKey, env codec.TxEnvelope) error {
	msg := txAuthSignBytesV1(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(pub, msg, env.Sig) {
		return types.ErrInvalidSignature
	}
	return nil
}

func requireRegisterAccountAuth(st *state.State, env codec.TxEnvelope, msg codec.AuthRegisterAccountTx) error {
	if msg.Account == "" {
		return errorsmod.Wrap(types.ErrInvalidTx, "missing account")
	}
	if types.IsReservedAccount(msg.Account) {
		return errorsmod.Wrapf(types.ErrReservedAccount, "%q", msg.Account)
	}
	if len(msg.PubKey) != ed25519.PublicKeySize {
		return errorsmod.Wrapf(types.ErrInvalidTx, "pubKey must be %d bytes", ed25519.PublicKeySize)
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != msg.Account {
		return errorsmod.Wrapf(types.ErrInvalidSignature, "tx signer mismatch: signer=%q want=%q", env.Signer, msg.Account)
	}
	if _, exists := st.AccountKeys[msg.Account]; exists {
		return errorsmod.Wrapf(types.ErrInvalidTx, "account %q already registered", msg.Account)
	}
	return verifyEnvelope(ed25519.PublicKey(msg.PubKey), env)
}

// requireAccountAuth checks that env is signed by account's registered key.
func requireAccountAuth(st *state.State, env codec.TxEnvelope, account string) error {
	if account == "" {
		return errorsmod.Wrap(types.ErrInvalidTx, "missing account")
	}
	if types.IsReservedAccount(account) {
		return errorsmod.Wrapf(types.ErrReservedAccount, "%q cannot sign", account)
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != account {
		return errorsmod.Wrapf(types.ErrInvalidSignature, "tx signer mismatch: signer=%q want=%q", env.Signer, account)
	}
	pub := st.AccountKeys[account]
	if len(pub) != ed25519.PublicKeySize {
		return errorsmod.Wrapf(types.ErrUnknownAccount, "account %q missing pubKey (auth/register_account required)", account)
	}
	return verifyEnvelope(ed25519.PublicKey(pub), env)
}

// consumeNonce enforces strictly increasing nonces per signer.
func consumeNonce(st *state.State, env codec.TxEnvelope) error {
	n, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidTx, "tx.nonce must be a decimal u64: %q", env.Nonce)
	}
	if last, ok := st.NonceMax[env.Signer]; ok && n <= last {
		return errorsmod.Wrapf(types.ErrReplayedNonce, "nonce %d <= last %d", n, last)
	}
	st.NonceMax[env.Signer] = n
	return nil
}
