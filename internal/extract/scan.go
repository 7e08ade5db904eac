package extract

import (
	"strings"
)

// MaxAddressLines bounds the manual line scan.
const MaxAddressLines = 4

// stopPrefixes mirror the terminators of the block strategies.
var stopPrefixes = []string{"(+)", "COD", "Weight", "Order"}

// FindRecipientLine returns the index of the first line holding the recipient
// marker and name, or -1.
func FindRecipientLine(lines []string, name string) int {
	for i, line := range lines {
		if strings.Contains(line, RecipientMarker) && strings.Contains(line, name) {
			return i
		}
	}
	return -1
}

// ScanAddressLines collects up to MaxAddressLines trimmed lines following the
// recipient line. It stops at the first empty line or a line beginning with a
// phone, cash-on-delivery, weight or order marker.
func ScanAddressLines(lines []string, recipientIdx int) []string {
	var out []string
	if recipientIdx < 0 {
		return out
	}
	end := min(recipientIdx+1+MaxAddressLines, len(lines))
	for i := recipientIdx + 1; i < end; i++ {
		line := cleanValue(lines[i])
		if line == "" || isStopLine(line) {
			break
		}
		out = append(out, line)
	}
	return out
}

func isStopLine(line string) bool {
	for _, p := range stopPrefixes {
		if len(line) >= len(p) && strings.EqualFold(line[:len(p)], p) {
			return true
		}
	}
	return false
}
