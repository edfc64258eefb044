package match

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"onchainjanken/internal/janken"
)

func FuzzRegistry_Conservation(f *testing.F) {
	f.Add(int64(1), []byte{0, 1, 2, 3, 4, 5, 6, 7, 8})
	f.Add(int64(42), []byte{2, 2, 3, 3, 4, 4, 6, 6, 7, 7, 5, 8, 1, 0})
	f.Add(int64(7), []byte{9, 9, 9, 2, 3, 5, 6, 2, 8})

	f.Fuzz(func(t *testing.T, seed int64, ops []byte) {
		if len(ops) > 400 {
			ops = ops[:400]
		}
		fx := newFixture(t)
		r := rand.New(rand.NewSource(seed))
		players := []string{"host", "guest", "carol"}
		secrets := map[uint64]struct {
			move janken.Move
			salt janken.Salt
		}{}
		now := genesisTime
		supply := fx.tokenSt.Supply

		for _, op := range ops {
			who := players[r.Intn(len(players))]
			tk, l, reg := fx.at(t, now)
			// ids are sequential from 1 and matches are never deleted.
			var id uint64
			if n := len(fx.matchSt.Matches); n > 0 {
				id = uint64(r.Intn(n)) + 1
			}

			switch op % 10 {
			case 0:
				_ = l.Deposit("janken", who, uint64(r.Intn(20)+1))
			case 1:
				_ = l.Withdraw("janken", who, uint64(r.Intn(20)+1))
			case 2:
				mv := janken.Move(r.Intn(3))
				salt := testSalt(byte(r.Intn(256)))
				if nid, err := reg.CreateMatch(who, uint64(r.Intn(8)+1), janken.Commit(mv, salt)); err == nil {
					secrets[nid] = struct {
						move janken.Move
						salt janken.Salt
					}{mv, salt}
				}
			case 3:
				_ = reg.JoinMatch(who, id, janken.Move(r.Intn(3)))
			case 4:
				if s, ok := secrets[id]; ok {
					_, _ = reg.RevealHostMove(who, id, s.move, s.salt)
				}
			case 5:
				_ = reg.JudgeTimedOut(who, id)
			case 6:
				_ = l.SettleRewards("janken", id, who)
			case 7:
				_ = l.SettleRefund("janken", id, who)
			case 8:
				_ = reg.CancelMatch(who, id)
			case 9:
				now += int64(r.Intn(80))
			}

			require.True(t, l.Totals("janken").Balanced())
			require.True(t, l.Solvent())
			require.Equal(t, tk.BalanceOf(custodyAddr), l.Custody("janken"))
			require.Equal(t, supply, tk.TotalSupply())

			for _, m := range fx.matchSt.Matches {
				switch m.Status {
				case janken.Joined, janken.Decided:
					require.Equal(t, m.BetAmount, l.StakeOf("janken", m.ID, m.Host))
					require.Equal(t, m.BetAmount, l.StakeOf("janken", m.ID, m.Guest))
				case janken.Paid, janken.Canceled:
					require.Zero(t, l.StakeOf("janken", m.ID, m.Host))
					require.Zero(t, l.StakeOf("janken", m.ID, m.Guest))
				}
			}
		}
	})
}
