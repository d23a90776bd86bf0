package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxAmount bounds every fee and payment so cent arithmetic stays inside int64.
const MaxAmount = 1e12

// ParseAmount reads a numeric cell. An empty cell is zero. Values that are not
// finite or exceed MaxAmount in magnitude are rejected.
func ParseAmount(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", cell, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > MaxAmount {
		return 0, fmt.Errorf("parse amount %q: out of range", cell)
	}
	return v, nil
}

// FormatAmount renders a numeric cell without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ToCents converts an amount to integer cents, rounding half away from zero.
func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromCents converts integer cents back to an amount.
func FromCents(c int64) float64 {
	return float64(c) / 100
}
