package app

import (
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"

	"onchainjanken/internal/codec"
	"onchainjanken/internal/janken"
	"onchainjanken/internal/match"
	"onchainjanken/internal/types"
)

func TestQuery_MatchesAndTotals(t *testing.T) {
	a := setupFundedPlayers(t)
	createTestMatch(t, a, "alice", 2, janken.Rock, testSalt(1))
	id := createTestMatch(t, a, "bob", 3, janken.Paper, testSalt(2))
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeJoinMatch, map[string]any{
		"guest": "alice", "matchId": id, "move": "rock",
	}, "alice"), testHeight, testNow))

	var all []match.Match
	queryJSON(t, a, "/matches", &all)
	require.Len(t, all, 2)

	var joined []match.Match
	queryJSON(t, a, "/matches?status=Joined", &joined)
	require.Len(t, joined, 1)
	require.Equal(t, id, joined[0].ID)

	var bobs []match.Match
	queryJSON(t, a, "/matches?player=bob&limit=10", &bobs)
	require.Len(t, bobs, 1)

	var totals struct {
		Balanced bool `json:"balanced"`
		Solvent  bool `json:"solvent"`
	}
	queryJSON(t, a, "/totals", &totals)
	require.True(t, totals.Balanced)
	require.True(t, totals.Solvent)

	var custody struct {
		Balance uint64 `json:"balance"`
		Custody uint64 `json:"custody"`
	}
	queryJSON(t, a, "/custody", &custody)
	require.Equal(t, uint64(20), custody.Balance)
	require.Equal(t, uint64(20), custody.Custody)

	var allowance struct {
		Allowance uint64 `json:"allowance"`
	}
	queryJSON(t, a, "/token/allowance/alice/"+types.CustodyAddress, &allowance)
	require.Equal(t, uint64(90), allowance.Allowance)
}

func TestQuery_Errors(t *testing.T) {
	a := newTestApp(t)
	for _, path := range []string{"/nope", "/match/abc", "/match/7", "/matches?status=Lost", "/timeout?context=other"} {
		res, err := a.Query(t.Context(), &abci.QueryRequest{Path: path})
		require.NoError(t, err)
		require.NotEqual(t, abci.CodeTypeOK, res.Code, path)
		require.NotEmpty(t, res.Codespace, path)
	}
}
