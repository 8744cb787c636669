// Package render turns prompt state into abstract redraw commands and
// writes them to a terminal as ANSI escape sequences.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// EOL is the line terminator written to the terminal.
const EOL = "\r\n"

// Op identifies a redraw command.
type Op uint8

const (
	OpRepositionCursor Op = iota // Move to column N of the current row
	OpEraseLine                  // Erase the current row
	OpWriteText                  // Write Text verbatim
	OpWriteStyled                // Write Text with Style, then reset
	OpEraseDown                  // Erase from cursor to end of display
	OpHideCursor
	OpShowCursor
	OpCursorUp      // Move up N rows
	OpCursorForward // Move right N columns
	OpCursorBack    // Move left N columns
)

// Command is one abstract redraw step.
type Command struct {
	Op    Op
	N     int
	Text  string
	Style Style
}

// Command constructors

func RepositionCursor(col int) Command { return Command{Op: OpRepositionCursor, N: col} }
func EraseLine() Command               { return Command{Op: OpEraseLine} }
func WriteText(s string) Command       { return Command{Op: OpWriteText, Text: s} }
func EraseDown() Command               { return Command{Op: OpEraseDown} }
func HideCursor() Command              { return Command{Op: OpHideCursor} }
func ShowCursor() Command              { return Command{Op: OpShowCursor} }
func CursorUp(n int) Command           { return Command{Op: OpCursorUp, N: n} }
func CursorForward(n int) Command      { return Command{Op: OpCursorForward, N: n} }
func CursorBack(n int) Command         { return Command{Op: OpCursorBack, N: n} }

// WriteStyled writes s in the given style.
func WriteStyled(s string, style Style) Command {
	return Command{Op: OpWriteStyled, Text: s, Style: style}
}

// PromptLine redraws the whole input row and places the cursor.
// The prompt is measured in display cells; each buffer unit is one column.
func PromptLine(prompt, line string, cursor int) []Command {
	return []Command{
		RepositionCursor(0),
		EraseLine(),
		WriteText(prompt + line),
		RepositionCursor(runewidth.StringWidth(prompt) + cursor),
	}
}

// LineBreak ends the current row.
func LineBreak() []Command {
	return []Command{WriteText(EOL)}
}

// OptionList draws the option lines below the prompt and hides the cursor.
func OptionList(lines []string) []Command {
	return []Command{
		WriteText(EOL + strings.Join(lines, EOL) + EOL),
		HideCursor(),
	}
}

// CycleOptions redraws an option list already on screen in place.
func CycleOptions(lines []string) []Command {
	return []Command{
		CursorUp(len(lines)),
		EraseDown(),
		WriteText(strings.Join(lines, EOL) + EOL),
	}
}

// Notice writes a styled message on its own row.
func Notice(msg string, style Style) []Command {
	return []Command{
		WriteText(EOL),
		WriteStyled(msg, style),
		WriteText(EOL),
	}
}
