package janken

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJudge_AllPairs(t *testing.T) {
	cases := []struct {
		host, guest Move
		want        Outcome
	}{
		{Rock, Rock, Tie},
		{Rock, Paper, GuestWins},
		{Rock, Scissors, HostWins},
		{Paper, Rock, HostWins},
		{Paper, Paper, Tie},
		{Paper, Scissors, GuestWins},
		{Scissors, Rock, GuestWins},
		{Scissors, Paper, HostWins},
		{Scissors, Scissors, Tie},
	}
	for _, tc := range cases {
		got, err := Judge(tc.host, tc.guest)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%s vs %s", tc.host, tc.guest)
	}
}

func TestJudge_RejectsInvalidMoves(t *testing.T) {
	_, err := Judge(None, Rock)
	require.Error(t, err)
	_, err = Judge(Rock, Move(3))
	require.Error(t, err)
	require.False(t, Move(7).Beats(Rock))
	require.False(t, Rock.Beats(None))
}

func TestMove_TextRoundTrip(t *testing.T) {
	for _, m := range []Move{Rock, Paper, Scissors, None} {
		bz, err := json.Marshal(m)
		require.NoError(t, err)

		var got Move
		require.NoError(t, json.Unmarshal(bz, &got))
		require.Equal(t, m, got)
	}

	m, err := ParseMove("2")
	require.NoError(t, err)
	require.Equal(t, Scissors, m)

	_, err = ParseMove("lizard")
	require.Error(t, err)
}

func TestStatus_Text(t *testing.T) {
	require.Equal(t, "Tied", Tied.String())
	require.True(t, Paid.Terminal())
	require.True(t, Canceled.Terminal())
	require.False(t, Decided.Terminal())

	s, err := ParseStatus("Joined")
	require.NoError(t, err)
	require.Equal(t, Joined, s)

	_, err = ParseStatus("Lost")
	require.Error(t, err)
}
