package core

import "strconv"

// Color is the foreground color of a screen cell.
type Color uint8

// Colors used by the board. Body colors follow the level (see LevelColor).
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightMagenta
	ColorBrightWhite
	ColorGray

	numColors
)

// ansiCodes holds the ANSI 256-color code of each Color; 0 means the terminal default.
var ansiCodes = [numColors]int{
	ColorRed:           1,
	ColorGreen:         2,
	ColorYellow:        3,
	ColorBlue:          4,
	ColorMagenta:       5,
	ColorCyan:          6,
	ColorBrightRed:     9,
	ColorBrightGreen:   10,
	ColorBrightYellow:  11,
	ColorBrightMagenta: 13,
	ColorBrightWhite:   15,
	ColorGray:          245,
}

// ANSI returns the 256-color code as a string, or "" for the terminal default
// and unknown values.
func (c Color) ANSI() string {
	if c >= numColors || ansiCodes[c] == 0 {
		return ""
	}
	return strconv.Itoa(ansiCodes[c])
}
