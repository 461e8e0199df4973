// Package utils holds small helpers shared by the HTTP layer.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// not a valid int. No trimming is done.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp bounds n to [lo, hi]. hi < lo is treated as hi == lo.
func Clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	switch {
	case n < lo:
		return lo
	case n > hi:
		return hi
	}
	return n
}
