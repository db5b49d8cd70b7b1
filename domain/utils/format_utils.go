package utils

import (
	"fmt"
)

// FormatAmount renders an amount held in hundredths of a point as a
// two-decimal string (e.g. 3960 -> "39.60").
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// AmountToFloat converts an amount in hundredths of a point to its
// decimal value for API responses.
func AmountToFloat(amount int64) float64 {
	return float64(amount) / 100
}

// AmountFromFloat converts a decimal point value to hundredths,
// rounding half away from zero.
func AmountFromFloat(v float64) int64 {
	if v < 0 {
		return -int64(-v*100 + 0.5)
	}
	return int64(v*100 + 0.5)
}
