package render

import "strconv"

// Style represents text styling for a notice.
type Style struct {
	FgColor int // ANSI foreground color code (0 = default)
}

// ColorBrightRed is the foreground code used for warnings.
const ColorBrightRed = 91

// styleSequence returns the SGR sequence selecting s.
func styleSequence(s Style) string {
	seq := "\033[0"
	if s.FgColor > 0 {
		seq += ";" + strconv.Itoa(s.FgColor)
	}
	return seq + "m"
}
