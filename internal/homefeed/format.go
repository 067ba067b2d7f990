package homefeed

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCount compacts engagement counters for display: 999 stays 999,
// 1200 becomes 1.2K, 3400000 becomes 3.4M.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "K"
	default:
		return strconv.Itoa(n)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
