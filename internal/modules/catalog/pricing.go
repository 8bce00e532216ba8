package catalog

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	oneCent = decimal.NewFromInt(1)
)

// Display turns a raw catalog price into the charged/displayed amount:
// max(0, round(v*100) - 1) / 100. It is not idempotent; apply it exactly once.
func Display(v decimal.Decimal) decimal.Decimal {
	cents := v.Mul(hundred).Round(0).Sub(oneCent)
	if cents.IsNegative() {
		cents = decimal.Zero
	}
	return cents.Shift(-2)
}

// FormatUSD renders an amount as "$1,234.56".
func FormatUSD(v decimal.Decimal) string {
	s := v.StringFixed(2)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var grouped []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, intPart[i])
	}
	out := "$" + string(grouped) + frac
	if neg {
		out = "-" + out
	}
	return out
}
