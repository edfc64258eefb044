package types

import (
	"math"

	errorsmod "cosmossdk.io/errors"
)

func AddUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errorsmod.Wrapf(ErrOverflow, "%s overflows uint64", field)
	}
	return a + b, nil
}

func SubUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	if b > a {
		return 0, errorsmod.Wrapf(ErrOverflow, "%s underflows uint64", field)
	}
	return a - b, nil
}

func MulUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, errorsmod.Wrapf(ErrOverflow, "%s overflows uint64", field)
	}
	return a * b, nil
}

// AddInt64AndU64Checked adds a non-negative offset to a unix timestamp.
func AddInt64AndU64Checked(a int64, b uint64, field string) (int64, error) {
	if a < 0 {
		return 0, errorsmod.Wrapf(ErrOverflow, "%s base is negative", field)
	}
	if b > uint64(math.MaxInt64-a) {
		return 0, errorsmod.Wrapf(ErrOverflow, "%s overflows int64", field)
	}
	return a + int64(b), nil
}
