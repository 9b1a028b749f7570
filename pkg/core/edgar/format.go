package edgar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatFactValue renders a raw fact value for display. Non-numeric
// values pass through unchanged. Numeric values get thousands
// grouping and a presentation chosen by the first unit measure:
// USD-bearing units become currency, Shares-bearing units whole share
// counts, Pure becomes a percentage, anything else is appended as a
// suffix.
func FormatFactValue(value string, units []Unit) string {
	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	unit := ""
	if len(units) > 0 {
		unit = units[0].Value
	}

	switch {
	case strings.Contains(unit, "USD"):
		return "$" + groupThousands(num, 2)
	case strings.Contains(unit, "Shares"):
		return groupThousands(num, 0) + " shares"
	case unit == "Pure":
		return groupThousands(num*100, 2) + "%"
	case unit != "":
		return groupThousands(num, 2) + " " + unit
	default:
		if num == math.Trunc(num) {
			return groupThousands(num, 0)
		}
		return groupThousands(num, 2)
	}
}

// groupThousands formats num to the given decimal places and inserts
// a comma every three digits of the integer part, right to left.
func groupThousands(num float64, decimals int) string {
	formatted := strconv.FormatFloat(num, 'f', decimals, 64)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	intPart := formatted
	fracPart := ""
	if idx := strings.Index(formatted, "."); idx >= 0 {
		intPart = formatted[:idx]
		fracPart = formatted[idx:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	return fmt.Sprintf("%s%s%s", sign, b.String(), fracPart)
}
