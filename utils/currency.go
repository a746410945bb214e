package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrencyJPY formats an amount as yen with thousands separators.
// Example: 15000 -> "15,000円"
func FormatCurrencyJPY(amount float64) string {
	whole := fmt.Sprintf("%d", int64(math.Round(amount)))

	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}

	var groups []string
	for i := len(whole); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{whole[start:i]}, groups...)
	}

	out := strings.Join(groups, ",") + "円"
	if neg {
		out = "-" + out
	}
	return out
}
