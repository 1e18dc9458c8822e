package utils

import (
	"strconv"
	"strings"
)

// FormatFCFA renders an integer amount with space-grouped thousands,
// e.g. 1500000 -> "1 500 000 FCFA".
func FormatFCFA(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	b.WriteString(" FCFA")
	return b.String()
}
