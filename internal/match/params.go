package match

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"onchainjanken/internal/types"
)

const (
	// DefaultTimeoutSecs is the reveal window granted to a host after a
	// guest joined (60 hours).
	DefaultTimeoutSecs uint64 = 216000

	DefaultMinBet uint64 = 1

	// maxTimeoutSecs is a sanity bound against deadline overflow and
	// obviously-bad admin input.
	maxTimeoutSecs uint64 = 365 * 24 * 60 * 60 // 1 year
)

type Params struct {
	MinBet      uint64 `json:"minBet"`
	TimeoutSecs uint64 `json:"timeoutSecs"`
	Admin       string `json:"admin"`
}

func DefaultParams(admin string) Params {
	return Params{
		MinBet:      DefaultMinBet,
		TimeoutSecs: DefaultTimeoutSecs,
		Admin:       admin,
	}
}

func (p Params) Validate() error {
	if p.Admin == "" {
		return errorsmod.Wrap(types.ErrInvalidParams, "admin must be set")
	}
	if p.MinBet == 0 {
		return errorsmod.Wrap(types.ErrInvalidParams, "min_bet must be > 0")
	}
	return validateTimeout(p.TimeoutSecs)
}

func validateTimeout(secs uint64) error {
	if secs == 0 {
		return errorsmod.Wrap(types.ErrInvalidParams, "timeout_secs must be > 0")
	}
	if secs > maxTimeoutSecs {
		return errorsmod.Wrap(types.ErrInvalidParams, fmt.Sprintf("timeout_secs too large: %d > %d", secs, maxTimeoutSecs))
	}
	return nil
}
