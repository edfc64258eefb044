package match

import (
	errorsmod "cosmossdk.io/errors"

	"onchainjanken/internal/types"
)

func matchTimeoutSecs(m *Match) uint64 {
	if m == nil || m.TimeoutSecs == 0 {
		return DefaultTimeoutSecs
	}
	return m.TimeoutSecs
}

// revealDeadline is the first block time at which the host may no longer
// reveal and the guest may claim the match.
func revealDeadline(m *Match) (int64, error) {
	if m.Guest == "" {
		return 0, errorsmod.Wrapf(types.ErrStatusInvalid, "match %d has not been joined", m.ID)
	}
	return types.AddInt64AndU64Checked(m.JoinedAt, matchTimeoutSecs(m), "reveal deadline")
}

func revealWindowOpen(m *Match, nowUnix int64) (bool, error) {
	deadline, err := revealDeadline(m)
	if err != nil {
		return false, err
	}
	return nowUnix < deadline, nil
}
