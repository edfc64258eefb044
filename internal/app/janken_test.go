package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"onchainjanken/internal/codec"
	"onchainjanken/internal/janken"
	"onchainjanken/internal/match"
	"onchainjanken/internal/types"
)

func testSalt(b byte) janken.Salt {
	var s janken.Salt
	copy(s[:], bytes.Repeat([]byte{b}, 32))
	return s
}

func createTestMatch(t *testing.T, a *JankenApp, host string, bet uint64, move janken.Move, salt janken.Salt) uint64 {
	t.Helper()
	res := mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeCreateMatch, map[string]any{
		"host":       host,
		"betAmount":  bet,
		"commitment": janken.Commit(move, salt).String(),
	}, host), testHeight, testNow))
	ev := findEvent(res.Events, types.EventTypeMatchCreated)
	require.NotNil(t, ev)
	require.Equal(t, host, attr(ev, "host"))
	return parseU64(t, attr(ev, "matchId"))
}

func TestScenario_GuestWinsAndCollects(t *testing.T) {
	a := setupFundedPlayers(t)
	salt := testSalt(0x5a)

	id := createTestMatch(t, a, "alice", 5, janken.Rock, salt)
	require.Equal(t, uint64(5), depositOf(t, a, "alice"))

	res := mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeJoinMatch, map[string]any{
		"guest": "bob", "matchId": id, "move": "paper",
	}, "bob"), testHeight, testNow+1))
	require.Equal(t, "paper", attr(findEvent(res.Events, types.EventTypeMatchJoined), "move"))
	require.NotNil(t, findEvent(res.Events, types.EventTypeStakeLocked))

	res = mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeReveal, map[string]any{
		"host": "alice", "matchId": id, "move": "rock", "salt": salt.String(),
	}, "alice"), testHeight, testNow+2))
	judged := findEvent(res.Events, types.EventTypeMatchJudged)
	require.Equal(t, "bob", attr(judged, "winner"))
	require.Equal(t, "alice", attr(judged, "loser"))
	require.Equal(t, "Decided", attr(judged, "status"))

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeBankSettleRewards, map[string]any{
		"winner": "alice", "matchId": id,
	}, "alice"), testHeight, testNow+3), types.ErrNotWinner)

	res = mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeBankSettleRewards, map[string]any{
		"winner": "bob", "matchId": id,
	}, "bob"), testHeight, testNow+3))
	require.Equal(t, "10", attr(findEvent(res.Events, types.EventTypeRewardsPaid), "amount"))
	require.NotNil(t, findEvent(res.Events, types.EventTypeMatchPaid))

	require.Equal(t, uint64(15), depositOf(t, a, "bob"))
	require.Equal(t, uint64(5), depositOf(t, a, "alice"))

	var m match.Match
	queryJSON(t, a, "/match/1", &m)
	require.Equal(t, janken.Paid, m.Status)
	require.Equal(t, janken.Rock, m.HostMove)
	require.Equal(t, janken.Paper, m.GuestMove)

	var stake struct {
		Stake uint64 `json:"stake"`
	}
	queryJSON(t, a, "/stake/1/alice", &stake)
	require.Zero(t, stake.Stake)

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeBankSettleRewards, map[string]any{
		"winner": "bob", "matchId": id,
	}, "bob"), testHeight, testNow+4), types.ErrStatusInvalid)
}

func TestScenario_TieRefundsEachSide(t *testing.T) {
	a := setupFundedPlayers(t)
	salt := testSalt(0x21)

	id := createTestMatch(t, a, "alice", 5, janken.Scissors, salt)
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeJoinMatch, map[string]any{
		"guest": "bob", "matchId": id, "move": "scissors",
	}, "bob"), testHeight, testNow))
	res := mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeReveal, map[string]any{
		"host": "alice", "matchId": id, "move": "scissors", "salt": salt.String(),
	}, "alice"), testHeight, testNow))
	require.Equal(t, "Tied", attr(findEvent(res.Events, types.EventTypeMatchJudged), "status"))

	for _, p := range []string{"alice", "bob"} {
		res = mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeBankSettleRefund, map[string]any{
			"user": p, "matchId": id,
		}, p), testHeight, testNow))
		require.Equal(t, "5", attr(findEvent(res.Events, types.EventTypeRefundPaid), "amount"))
		require.Equal(t, uint64(10), depositOf(t, a, p))
	}

	var m match.Match
	queryJSON(t, a, "/match/1", &m)
	require.Equal(t, janken.Paid, m.Status)

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeBankSettleRefund, map[string]any{
		"user": "bob", "matchId": id,
	}, "bob"), testHeight, testNow), types.ErrStatusInvalid)
}

func TestJudgeTimeout_UsesBlockTime(t *testing.T) {
	a := setupFundedPlayers(t)
	salt := testSalt(0x01)
	id := createTestMatch(t, a, "alice", 5, janken.Paper, salt)
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeJoinMatch, map[string]any{
		"guest": "bob", "matchId": id, "move": "rock",
	}, "bob"), testHeight, testNow))

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeJudgeTimeout, map[string]any{
		"guest": "bob", "matchId": id,
	}, "bob"), testHeight, testNow+99), types.ErrTimeoutNotElapsed)

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeReveal, map[string]any{
		"host": "alice", "matchId": id, "move": "paper", "salt": salt.String(),
	}, "alice"), testHeight, testNow+100), types.ErrTimeoutElapsed)

	res := mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeJudgeTimeout, map[string]any{
		"guest": "bob", "matchId": id,
	}, "bob"), testHeight, testNow+100))
	ev := findEvent(res.Events, types.EventTypeMatchJudged)
	require.Equal(t, "bob", attr(ev, "winner"))
	require.Equal(t, "timeout", attr(ev, "reason"))
}

func TestJoinMatch_MissingMoveIsRejected(t *testing.T) {
	a := setupFundedPlayers(t)
	id := createTestMatch(t, a, "alice", 5, janken.Rock, testSalt(9))

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeJoinMatch, map[string]any{
		"guest": "bob", "matchId": id,
	}, "bob"), testHeight, testNow), types.ErrInvalidMove)
}

func TestCancelMatch_ReturnsStake(t *testing.T) {
	a := setupFundedPlayers(t)
	id := createTestMatch(t, a, "alice", 4, janken.Rock, testSalt(3))
	require.Equal(t, uint64(6), depositOf(t, a, "alice"))

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeCancelMatch, map[string]any{
		"host": "bob", "matchId": id,
	}, "bob"), testHeight, testNow), types.ErrNotHost)

	res := mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeCancelMatch, map[string]any{
		"host": "alice", "matchId": id,
	}, "alice"), testHeight, testNow))
	require.NotNil(t, findEvent(res.Events, types.EventTypeMatchCanceled))
	require.Equal(t, uint64(10), depositOf(t, a, "alice"))
}

func TestChangeTimeout_AdminOnly(t *testing.T) {
	a := setupFundedPlayers(t)

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeChangeTimeout, map[string]any{
		"admin": "alice", "timeoutSecs": 5,
	}, "alice"), testHeight, testNow), types.ErrUnauthorized)

	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeChangeTimeout, map[string]any{
		"admin": "admin", "timeoutSecs": 5,
	}, "admin"), testHeight, testNow))

	var out struct {
		TimeoutSecs uint64 `json:"timeoutSecs"`
	}
	queryJSON(t, a, "/timeout", &out)
	require.Equal(t, uint64(5), out.TimeoutSecs)

	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeTransferAdmin, map[string]any{
		"admin": "admin", "newAdmin": "carol",
	}, "admin"), testHeight, testNow), types.ErrUnknownAccount)

	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeTransferAdmin, map[string]any{
		"admin": "admin", "newAdmin": "bob",
	}, "admin"), testHeight, testNow))
	var p match.Params
	queryJSON(t, a, "/params", &p)
	require.Equal(t, "bob", p.Admin)
}

func TestMintRequiresAdmin(t *testing.T) {
	a := setupFundedPlayers(t)
	mustFail(t, a.deliverTx(txBytesSigned(t, codec.TypeTokenMint, map[string]any{
		"admin": "alice", "to": "alice", "amount": 1,
	}, "alice"), testHeight, testNow), types.ErrNotTokenAdmin)
}
