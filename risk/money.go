package risk

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders amount with thousands separators and two
// decimals: "$1,234.50" for USD, "1,234.50 EUR" otherwise.
func FormatCurrency(amount float64, currency string) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if currency == "" || currency == "USD" {
		out = "$" + out
	} else {
		out += " " + currency
	}
	if neg {
		out = "-" + out
	}
	return out
}
