package types

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckedArithmetic(t *testing.T) {
	v, err := AddUint64Checked(1, 2, "sum")
	require.NoError(t, err)
	require.Equal(t, uint64(3), v)

	_, err = AddUint64Checked(math.MaxUint64, 1, "sum")
	require.True(t, errors.Is(err, ErrOverflow))

	_, err = SubUint64Checked(1, 2, "diff")
	require.True(t, errors.Is(err, ErrOverflow))

	v, err = MulUint64Checked(0, math.MaxUint64, "prod")
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = MulUint64Checked(math.MaxUint64/2+1, 2, "prod")
	require.ErrorIs(t, err, ErrOverflow)

	ts, err := AddInt64AndU64Checked(1_700_000_000, 216000, "deadline")
	require.NoError(t, err)
	require.Equal(t, int64(1_700_216_000), ts)

	_, err = AddInt64AndU64Checked(math.MaxInt64-1, 2, "deadline")
	require.ErrorIs(t, err, ErrOverflow)
}

func TestEventManager_SortsAttributes(t *testing.T) {
	em := NewEventManager()
	em.Emit(EventTypeMatchCreated, map[string]string{"matchId": "1", "context": "janken", "betAmount": "10"})

	evs := em.Events()
	require.Len(t, evs, 1)
	require.Equal(t, EventTypeMatchCreated, evs[0].Type)
	keys := []string{}
	for _, a := range evs[0].Attributes {
		keys = append(keys, a.Key)
		require.True(t, a.Index)
	}
	require.Equal(t, []string{"betAmount", "context", "matchId"}, keys)

	var nilEM *EventManager
	nilEM.Emit("x", nil)
	require.Nil(t, nilEM.Events())
}

func TestMatchKey(t *testing.T) {
	k := MatchKey("janken", 258)
	require.Equal(t, MatchKeyPrefix[0], k[0])
	require.Equal(t, "janken", string(k[1:7]))
	require.Equal(t, byte(0), k[7])
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, k[8:])
}
