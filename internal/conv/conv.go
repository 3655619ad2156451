// Package conv provides checked integer conversions.
//
// Blob framing and store metadata carry fixed-width sizes that originate
// outside the process (files, object stores). These helpers reject values
// that do not fit the destination type instead of silently truncating.
// For conversions that are provably in range, use a direct cast.
package conv

import (
	"fmt"
	"math"
)

// IntToUint32 converts an int to uint32, rejecting negatives and overflow.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("conv: %d is negative, cannot convert to uint32", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("conv: %d overflows uint32", v)
	}
	return uint32(v), nil
}

// Uint32ToInt converts a uint32 to int, rejecting overflow on 32-bit platforms.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("conv: %d overflows int", v)
	}
	return int(v), nil
}

// Uint64ToInt converts a uint64 to int, rejecting overflow.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("conv: %d overflows int", v)
	}
	return int(v), nil
}

// Int64ToInt converts an int64 to int, rejecting overflow.
func Int64ToInt(v int64) (int, error) {
	if v > int64(math.MaxInt) || v < int64(math.MinInt) {
		return 0, fmt.Errorf("conv: %d overflows int", v)
	}
	return int(v), nil
}
