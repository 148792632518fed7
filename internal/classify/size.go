package classify

import "fmt"

var sizeUnits = []string{"KB", "MB", "GB"}

// FormatSize renders a byte count with binary prefixes and one decimal,
// using the largest unit whose value is at least 1. Counts below 1 KB are
// shown in bytes; GB is the largest unit.
func FormatSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n) / 1024
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}
