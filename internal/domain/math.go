package domain

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// displayPrecision caps the fractional digits shown for scaled token amounts.
const displayPrecision = 6

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SumDecimals adds all values exactly.
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	return lo.Reduce(values, func(acc decimal.Decimal, v decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(v)
	}, decimal.Zero)
}

// ToUnits converts a smallest-unit amount to whole token units.
func ToUnits(amount decimal.Decimal, decimals int32) decimal.Decimal {
	if decimals <= 0 {
		return amount
	}
	return amount.Shift(-decimals)
}

// FormatUnits renders a smallest-unit amount in whole token units, rounded to
// six decimal places with trailing zeros stripped.
func FormatUnits(amount decimal.Decimal, decimals int32) string {
	s := ToUnits(amount, decimals).Round(displayPrecision).StringFixed(displayPrecision)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
