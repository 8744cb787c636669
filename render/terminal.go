package render

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal handles raw mode for the prompt's input file.
type Terminal struct {
	fd       int
	original unix.Termios
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewTerminal creates a terminal controller for the given file.
func NewTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	termios, err := getTermios(fd)
	if err != nil {
		return nil, fmt.Errorf("reading terminal mode: %w", err)
	}
	return &Terminal{fd: fd, original: *termios}, nil
}

// EnterRawMode puts the terminal into raw mode for direct key input.
// Signals are disabled so ctrl+c and ctrl+d arrive as keys.
func (t *Terminal) EnterRawMode() error {
	raw := t.original
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := setTermios(t.fd, &raw); err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	return nil
}

// RestoreMode restores the original terminal mode.
func (t *Terminal) RestoreMode() error {
	return setTermios(t.fd, &t.original)
}

// Restore restores the original mode and makes sure the cursor is visible.
func (t *Terminal) Restore(out *os.File) error {
	out.WriteString(ResetSeq + CursorShowSeq)
	return t.RestoreMode()
}
