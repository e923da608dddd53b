package insights

import (
	"math"
	"strconv"
)

// formatDollars formats a value as a whole-dollar amount with comma
// thousands separators, e.g. 45000.4 => "$45,000".
func formatDollars(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatInt(int64(math.Round(v)), 10)
	if len(s) > 3 {
		var buf []byte
		count := 0
		for i := len(s) - 1; i >= 0; i-- {
			buf = append(buf, s[i])
			count++
			if count == 3 && i != 0 {
				buf = append(buf, ',')
				count = 0
			}
		}
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
		s = string(buf)
	}

	if neg {
		return "-$" + s
	}
	return "$" + s
}

// trimFloat renders a threshold without trailing zeros, e.g. 10.0 => "10".
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
