// Package selection holds the state of a single-choice option prompt.
package selection

import "errors"

// ErrNoOptions is returned when a choice is requested from an empty list.
var ErrNoOptions = errors.New("selection: no options")

// Option markers shown in front of each option line.
const (
	MarkerChosen = "[*] "
	MarkerOther  = "[ ] "
)

// Session tracks the option list and the currently highlighted choice.
type Session struct {
	options []string
	index   int
}

// New starts a session on the first option.
func New(options []string) *Session {
	s := &Session{}
	s.SetOptions(options)
	return s
}

// SetOptions replaces the option list, keeping the index when it is still valid.
func (s *Session) SetOptions(options []string) {
	s.options = append([]string(nil), options...)
	if s.index >= len(s.options) {
		s.index = 0
	}
}

// Len returns the number of options.
func (s *Session) Len() int {
	return len(s.options)
}

// Index returns the highlighted option index.
func (s *Session) Index() int {
	return s.index
}

// Next moves the highlight down one option, wrapping to the first.
func (s *Session) Next() {
	s.step(1)
}

// Prev moves the highlight up one option, wrapping to the last.
func (s *Session) Prev() {
	s.step(-1)
}

func (s *Session) step(delta int) {
	n := len(s.options)
	if n == 0 {
		return
	}
	s.index = (s.index + delta + n) % n
}

// Choice returns the highlighted option.
func (s *Session) Choice() (string, error) {
	if len(s.options) == 0 {
		return "", ErrNoOptions
	}
	return s.options[s.index], nil
}

// Lines returns the option list as display lines with the choice marked.
func (s *Session) Lines() []string {
	lines := make([]string, len(s.options))
	for i, opt := range s.options {
		marker := MarkerOther
		if i == s.index {
			marker = MarkerChosen
		}
		lines[i] = marker + opt
	}
	return lines
}
