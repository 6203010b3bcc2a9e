package utils

import "fmt"

// PercentOfCents computes percent% of an amount in integer minor currency
// units using banker's (round-half-to-even) rounding, so repeated splits do
// not drift in one direction.
func PercentOfCents(amountCents int64, percent int64) int64 {
	if amountCents <= 0 || percent <= 0 {
		return 0
	}

	product := amountCents * percent
	quotient := product / 100
	remainder := product % 100

	switch {
	case remainder*2 < 100:
		return quotient
	case remainder*2 > 100:
		return quotient + 1
	default:
		// Exactly half a cent: round to the even neighbour.
		if quotient%2 == 0 {
			return quotient
		}
		return quotient + 1
	}
}

// FormatCents renders an amount of minor currency units as a decimal string,
// e.g. 123456 -> "1234.56". Used for human-readable log lines and responses.
func FormatCents(amountCents int64) string {
	sign := ""
	if amountCents < 0 {
		sign = "-"
		amountCents = -amountCents
	}
	return fmt.Sprintf("%s%d.%02d", sign, amountCents/100, amountCents%100)
}
