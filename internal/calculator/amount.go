package calculator

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharepay/internal/models"
)

// ParseAmount parses a textual amount such as "50", "50.0" or " 12.345 ".
// It returns models.ErrInvalidAmount for unparsable, non-positive or
// out-of-range input.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, models.ErrInvalidAmount
	}
	f := d.InexactFloat64()
	if !ValidAmount(f) {
		return 0, models.ErrInvalidAmount
	}
	return f, nil
}

// ValidAmount reports whether x is positive and finite.
func ValidAmount(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// AmountsEqual compares two amounts with models.Epsilon tolerance.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) <= models.Epsilon
}
