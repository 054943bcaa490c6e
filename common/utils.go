package common

import "cmp"

// Coalesce returns the first non-zero value, or the zero value if all are zero.
// Used to fall back to defaults for unset options.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to [lo, hi]. When lo > hi the result is lo. A NaN float in
// any argument yields NaN, matching the builtin min and max.
//
// Parameters:
//   - v: the value to limit
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - T: the clamped value
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
