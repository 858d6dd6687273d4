// Package termtext normalizes terminal output into plain text. Strip removes
// control sequences so prompt matching and log capture see what a user would
// see; Normalize resolves backspace and carriage-return overstrikes into the
// final visual text.
package termtext

import "strings"

const (
	esc = 0x1b
	bel = 0x07

	// C1 controls
	dcs = 0x90
	csi = 0x9b
	st  = 0x9c
	osc = 0x9d
	pm  = 0x9e
	apc = 0x9f
)

// Strip removes CSI sequences, OSC/DCS/PM/APC string sequences (terminated
// by BEL or ST) and bare C1 control bytes. Printable text and the ordinary
// C0 controls (newline, carriage return, backspace, tab) pass through.
func Strip(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == esc:
			i = skipEscape(runes, i)
		case r == csi:
			i = skipCSIBody(runes, i+1)
		case r == dcs || r == osc || r == pm || r == apc:
			i = skipStringBody(runes, i+1)
		case r >= 0x80 && r <= 0x9f:
			i++ // bare C1 control
		default:
			b.WriteRune(r)
			i++
		}
	}
	return b.String()
}

// skipEscape consumes an ESC-introduced sequence starting at index i
func skipEscape(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return len(runes)
	}
	switch runes[i+1] {
	case '[':
		return skipCSIBody(runes, i+2)
	case ']', 'P', '^', '_', 'X':
		return skipStringBody(runes, i+2)
	default:
		// two-character escape, possibly with intermediates
		j := i + 1
		for j < len(runes) && runes[j] >= 0x20 && runes[j] <= 0x2f {
			j++
		}
		if j < len(runes) {
			j++
		}
		return j
	}
}

// skipCSIBody consumes parameter and intermediate bytes plus the final byte
func skipCSIBody(runes []rune, from int) int {
	j := from
	for j < len(runes) && runes[j] >= 0x20 && runes[j] <= 0x3f {
		j++
	}
	if j < len(runes) {
		j++ // final byte
	}
	return j
}

// skipStringBody consumes an OSC/DCS/PM/APC payload up to BEL or ST
func skipStringBody(runes []rune, from int) int {
	j := from
	for j < len(runes) {
		switch {
		case runes[j] == bel || runes[j] == st:
			return j + 1
		case runes[j] == esc && j+1 < len(runes) && runes[j+1] == '\\':
			return j + 2
		}
		j++
	}
	return len(runes)
}
