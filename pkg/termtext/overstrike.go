package termtext

import "strings"

// Normalize resolves overstrikes into the text a terminal would display.
// Backspace deletes the character before the cursor; a carriage return
// without a newline moves the cursor to column zero so later characters
// overwrite earlier ones at the same column. Lines are processed
// independently.
func Normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = normalizeLine(line)
	}
	return strings.Join(lines, "\n")
}

func normalizeLine(line string) string {
	if !strings.ContainsAny(line, "\b\r") {
		return line
	}

	var buf []rune
	col := 0
	for _, r := range line {
		switch r {
		case '\b':
			if col > 0 {
				buf = append(buf[:col-1], buf[col:]...)
				col--
			}
		case '\r':
			col = 0
		default:
			if col < len(buf) {
				buf[col] = r
			} else {
				buf = append(buf, r)
			}
			col++
		}
	}
	return string(buf)
}

// Clean strips control sequences and then resolves overstrikes. It is the
// form used for captured subprocess output.
func Clean(s string) string {
	return Normalize(Strip(s))
}
