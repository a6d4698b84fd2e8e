package render

import (
	"strings"
)

// Sanitize strips ANSI escape sequences and non-printing control characters
// from server-supplied text. Tabs and newlines survive; everything else the
// terminal could interpret as markup is dropped, so message content always
// renders as literal text.
func Sanitize(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// ESC starts an ANSI sequence; skip through its terminator.
		if r == 0x1b {
			i = skipEscape(runes, i)
			continue
		}

		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}

		// Remaining C0 controls and DEL are dropped, C1 likewise.
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// skipEscape returns the index of the last rune of the escape sequence
// starting at i (runes[i] == ESC).
func skipEscape(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}

	switch runes[i+1] {
	case '[': // CSI: parameters then a final byte in 0x40..0x7e
		j := i + 2
		for j < len(runes) {
			if runes[j] >= 0x40 && runes[j] <= 0x7e {
				return j
			}
			j++
		}
		return j
	case ']': // OSC: terminated by BEL or ST (ESC \)
		j := i + 2
		for j < len(runes) {
			if runes[j] == 0x07 {
				return j
			}
			if runes[j] == 0x1b && j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
			j++
		}
		return j
	default: // two-rune escape
		return i + 1
	}
}
