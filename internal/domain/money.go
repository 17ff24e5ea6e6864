package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice converts a decimal price string ("3.50") into cents. The flat
// files store prices as two-decimal strings; internally everything is int64
// cents.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	if value < 0 {
		return 0, ErrInvalidPrice
	}
	cents := int64(value*100 + 0.5)
	return cents, nil
}

// FormatPrice renders cents as the two-decimal string used by the flat files.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
