// Package core provides count parsing and handling utilities.
//
// Form counts arrive as JSON numbers or numeric strings and are stored as
// whole, non-negative integers.
package core

import (
	"math"
	"strconv"
	"strings"
)

// maxCount keeps parsed counts exactly representable in a float64.
const maxCount = 1 << 53

// ParseCount converts a textual count to a whole, non-negative integer.
//
// Surrounding whitespace is ignored. Fractional, negative, non-finite and
// empty values are rejected with ErrInvalidCounts.
//
// Examples:
//
//	ParseCount("12")   -> 12, nil
//	ParseCount("12.0") -> 12, nil
//	ParseCount("1e2")  -> 100, nil
//	ParseCount("-1")   -> 0, ErrInvalidCounts
//	ParseCount("2.5")  -> 0, ErrInvalidCounts
func ParseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidCounts
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidCounts
	}
	return countFromFloat(f)
}

func countFromFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxCount || f != math.Trunc(f) {
		return 0, ErrInvalidCounts
	}
	return int64(f), nil
}
