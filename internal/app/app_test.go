package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"strconv"
	"sync"
	"testing"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"onchainjanken/internal/codec"
	"onchainjanken/internal/state"
	"onchainjanken/internal/types"
)

const (
	testHeight = int64(1)
	testNow    = int64(1_700_000_000)
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func findEvent(events []abci.Event, typ string) *abci.Event {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func attr(ev *abci.Event, key string) string {
	if ev == nil {
		return ""
	}
	for _, a := range ev.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func parseU64(t *testing.T, s string) uint64 {
	t.Helper()
	n, err := strconv.ParseUint(s, 10, 64)
	require.NoError(t, err, "parse uint64 %q", s)
	return n
}

func testEd25519Key(id string) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := sha256.Sum256([]byte("janken/test-key/" + id))
	priv := ed25519.NewKeyFromSeed(seed[:])
	return priv.Public().(ed25519.PublicKey), priv
}

var (
	testNonceMu sync.Mutex
	testNonces  = map[string]uint64{}
)

func nextTestNonce(signer string) string {
	testNonceMu.Lock()
	defer testNonceMu.Unlock()
	testNonces[signer]++
	return strconv.FormatUint(testNonces[signer], 10)
}

func signedEnvelope(t *testing.T, typ string, value any, signer, nonce string) []byte {
	t.Helper()
	raw := mustMarshal(t, value)
	_, priv := testEd25519Key(signer)
	sig := ed25519.Sign(priv, txAuthSignBytesV1(typ, raw, nonce, signer))
	return mustMarshal(t, codec.TxEnvelope{
		Type:   typ,
		Value:  raw,
		Nonce:  nonce,
		Signer: signer,
		Sig:    sig,
	})
}

func txBytesSigned(t *testing.T, typ string, value any, signer string) []byte {
	t.Helper()
	return signedEnvelope(t, typ, value, signer, nextTestNonce(signer))
}

func newTestApp(t *testing.T) *JankenApp {
	t.Helper()
	adminPub, _ := testEd25519Key("admin")
	g := state.DefaultGenesis("admin", adminPub)
	g.TimeoutSecs = 100
	a, err := New(dbm.NewMemDB(), g, log.NewNopLogger())
	require.NoError(t, err)
	return a
}

func mustOk(t *testing.T, res *abci.ExecTxResult) *abci.ExecTxResult {
	t.Helper()
	require.Equal(t, abci.CodeTypeOK, res.Code, "expected ok, got codespace=%s code=%d log=%q", res.Codespace, res.Code, res.Log)
	return res
}

func mustFail(t *testing.T, res *abci.ExecTxResult, want error) *abci.ExecTxResult {
	t.Helper()
	require.NotEqual(t, abci.CodeTypeOK, res.Code, "expected failure")
	space, code, _ := errAttrs(want)
	require.Equal(t, space, res.Codespace, "log=%q", res.Log)
	require.Equal(t, code, res.Code, "log=%q", res.Log)
	return res
}

func errAttrs(err error) (string, uint32, string) {
	type coded interface {
		Codespace() string
		ABCICode() uint32
	}
	c := err.(coded)
	return c.Codespace(), c.ABCICode(), err.Error()
}

func registerTestAccount(t *testing.T, a *JankenApp, height int64, account string) {
	t.Helper()
	pub, _ := testEd25519Key(account)
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeRegisterAccount, map[string]any{
		"account": account,
		"pubKey":  []byte(pub),
	}, account), height, testNow))
}

func mintTestTokens(t *testing.T, a *JankenApp, height int64, to string, amount uint64) {
	t.Helper()
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeTokenMint, map[string]any{
		"admin":  "admin",
		"to":     to,
		"amount": amount,
	}, "admin"), height, testNow))
}

// setupFundedPlayers registers alice and bob, mints 100 to each player and
// deposits 10 of it into the default context. The admin key comes from genesis.
func setupFundedPlayers(t *testing.T) *JankenApp {
	t.Helper()
	a := newTestApp(t)
	for _, p := range []string{"alice", "bob"} {
		registerTestAccount(t, a, testHeight, p)
		mintTestTokens(t, a, testHeight, p, 100)
		mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeTokenApprove, map[string]any{
			"owner": p, "spender": types.CustodyAddress, "amount": 100,
		}, p), testHeight, testNow))
		mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeBankDeposit, map[string]any{
			"user": p, "amount": 10,
		}, p), testHeight, testNow))
	}
	return a
}

func queryJSON(t *testing.T, a *JankenApp, path string, out any) {
	t.Helper()
	res, err := a.Query(t.Context(), &abci.QueryRequest{Path: path})
	require.NoError(t, err)
	require.Equal(t, abci.CodeTypeOK, res.Code, "query %s: %s", path, res.Log)
	require.NoError(t, json.Unmarshal(res.Value, out))
}

func depositOf(t *testing.T, a *JankenApp, user string) uint64 {
	t.Helper()
	var out struct {
		Deposit uint64 `json:"deposit"`
	}
	queryJSON(t, a, "/deposit/"+user, &out)
	return out.Deposit
}
