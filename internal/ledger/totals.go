package ledger

import (
	"sort"

	sdkmath "cosmossdk.io/math"
)

// Totals is a conservation audit of one context.
type Totals struct {
	Context  string      `json:"context"`
	Deposits sdkmath.Int `json:"deposits"`
	Stakes   sdkmath.Int `json:"stakes"`
	Custody  sdkmath.Int `json:"custody"`
}

// Balanced reports whether deposits and stakes account for every custodied
// token.
func (t Totals) Balanced() bool {
	return t.Deposits.Add(t.Stakes).Equal(t.Custody)
}

func (l *Ledger) Totals(ctx string) Totals {
	t := Totals{
		Context:  ctx,
		Deposits: sdkmath.ZeroInt(),
		Stakes:   sdkmath.ZeroInt(),
		Custody:  sdkmath.NewIntFromUint64(l.st.Custody[ctx]),
	}
	for _, v := range l.st.Deposits[ctx] {
		t.Deposits = t.Deposits.Add(sdkmath.NewIntFromUint64(v))
	}
	for _, byUser := range l.st.Stakes[ctx] {
		for _, v := range byUser {
			t.Stakes = t.Stakes.Add(sdkmath.NewIntFromUint64(v))
		}
	}
	return t
}

// Contexts lists every context holding custody, sorted.
func (l *Ledger) Contexts() []string {
	out := make([]string, 0, len(l.st.Custody))
	for ctx := range l.st.Custody {
		out = append(out, ctx)
	}
	sort.Strings(out)
	return out
}

// Solvent reports whether the custody address holds at least the sum of all
// context custody.
func (l *Ledger) Solvent() bool {
	sum := sdkmath.ZeroInt()
	for _, v := range l.st.Custody {
		sum = sum.Add(sdkmath.NewIntFromUint64(v))
	}
	return sdkmath.NewIntFromUint64(l.token.BalanceOf(l.custody)).GTE(sum)
}
