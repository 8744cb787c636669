// Package keys defines decoded key events and turns raw terminal input into them.
package keys

// Name identifies a key within the fixed vocabulary.
type Name uint8

// Key names
const (
	Undefined Name = iota // Unrecognized input
	Rune                  // Single printable character (see Key.Rune)

	// Control keys
	Backspace
	Return   // CR
	Linefeed // LF
	Escape
	Space
	Tab
	Delete
	Insert
	Clear

	// Navigation
	Up
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown

	// Function keys
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
)

// Key is one decoded keystroke.
type Key struct {
	Name  Name
	Rune  rune // Set when Name == Rune, always lower case for letters
	Ctrl  bool
	Shift bool
}

// Char returns a printable key for r.
// Upper case ASCII letters become their lower case letter with Shift set.
func Char(r rune) Key {
	if r >= 'A' && r <= 'Z' {
		return Key{Name: Rune, Rune: r + ('a' - 'A'), Shift: true}
	}
	return Key{Name: Rune, Rune: r}
}

// Ctrl returns ctrl+r for a letter r.
func Ctrl(r rune) Key {
	return Key{Name: Rune, Rune: r, Ctrl: true}
}

// Named returns a key without a character payload.
func Named(n Name) Key {
	return Key{Name: n}
}

// String returns the canonical key name, or the character itself for Rune keys.
func (k Key) String() string {
	if k.Name == Rune {
		return string(k.Rune)
	}
	return nameStrings[k.Name]
}

var nameStrings = map[Name]string{
	Undefined: "undefined",
	Backspace: "backspace",
	Return:    "return",
	Linefeed:  "linefeed",
	Escape:    "escape",
	Space:     "space",
	Tab:       "tab",
	Delete:    "delete",
	Insert:    "insert",
	Clear:     "clear",

	Up:       "up",
	Down:     "down",
	Left:     "left",
	Right:    "right",
	Home:     "home",
	End:      "end",
	PageUp:   "pageup",
	PageDown: "pagedown",

	F1:  "f1",
	F2:  "f2",
	F3:  "f3",
	F4:  "f4",
	F5:  "f5",
	F6:  "f6",
	F7:  "f7",
	F8:  "f8",
	F9:  "f9",
	F10: "f10",
	F11: "f11",
	F12: "f12",
}

// Source delivers decoded keys to subscribers.
type Source interface {
	// Subscribe registers handler and returns a function that removes it.
	Subscribe(handler func(Key)) (unsubscribe func())
}
