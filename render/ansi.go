package render

import (
	"bytes"
	"io"
	"strconv"
)

// Sink receives redraw commands and raw output.
type Sink interface {
	Render(cmds []Command) error
	Write(p []byte) (int, error)
}

// ANSI and cursor control sequences
const (
	EraseLineSeq  = "\033[2K"
	EraseDownSeq  = "\033[J"
	CursorHideSeq = "\033[?25l"
	CursorShowSeq = "\033[?25h"
	ResetSeq      = "\033[0m"
)

// ANSI is a Sink that writes xterm-compatible escape sequences.
type ANSI struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewANSI creates a renderer writing to w.
func NewANSI(w io.Writer) *ANSI {
	return &ANSI{w: w}
}

// Render encodes cmds and writes them in a single call.
func (a *ANSI) Render(cmds []Command) error {
	if len(cmds) == 0 {
		return nil
	}
	a.buf.Reset()
	for _, c := range cmds {
		Encode(&a.buf, c)
	}
	_, err := a.w.Write(a.buf.Bytes())
	return err
}

// Write passes p through unchanged.
func (a *ANSI) Write(p []byte) (int, error) {
	return a.w.Write(p)
}

// Encode appends the escape sequence for c to buf.
func Encode(buf *bytes.Buffer, c Command) {
	switch c.Op {
	case OpRepositionCursor:
		writeCSI(buf, c.N+1, 'G') // CHA is 1-based
	case OpEraseLine:
		buf.WriteString(EraseLineSeq)
	case OpWriteText:
		buf.WriteString(c.Text)
	case OpWriteStyled:
		buf.WriteString(styleSequence(c.Style))
		buf.WriteString(c.Text)
		buf.WriteString(ResetSeq)
	case OpEraseDown:
		buf.WriteString(EraseDownSeq)
	case OpHideCursor:
		buf.WriteString(CursorHideSeq)
	case OpShowCursor:
		buf.WriteString(CursorShowSeq)
	case OpCursorUp:
		if c.N > 0 {
			writeCSI(buf, c.N, 'A')
		}
	case OpCursorForward:
		if c.N > 0 {
			writeCSI(buf, c.N, 'C')
		}
	case OpCursorBack:
		if c.N > 0 {
			writeCSI(buf, c.N, 'D')
		}
	}
}

// writeCSI writes ESC [ n final.
func writeCSI(buf *bytes.Buffer, n int, final byte) {
	buf.WriteString("\033[")
	buf.WriteString(strconv.Itoa(n))
	buf.WriteByte(final)
}
