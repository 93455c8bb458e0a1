package utils

import (
	"fmt"
	"strings"
)

// FormatAmount renders a money value with thousands separators, e.g.
// 1200000 -> "1,200,000.00". Rejected ledger operations quote the exact
// boundary figure in this format.
func FormatAmount(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	whole, frac := parts[0], parts[1]

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
