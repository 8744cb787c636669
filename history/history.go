// Package history keeps committed lines for up/down recall.
package history

// notBrowsing is the cursor value while the user is editing a fresh line.
const notBrowsing = -1

// History stores committed lines, most recent first, plus the browse cursor.
// It only grows; entries are discarded with the session.
type History struct {
	entries []string
	cursor  int
}

// New creates an empty History that is not browsing.
func New() *History {
	return &History{cursor: notBrowsing}
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the entries, most recent first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Push records a committed line at the front.
// A line equal to the current front entry is skipped; older duplicates are kept.
// Returns true if the line was added.
func (h *History) Push(line string) bool {
	if front, ok := h.At(0); ok && front == line {
		return false
	}
	h.entries = append(h.entries, "")
	copy(h.entries[1:], h.entries)
	h.entries[0] = line
	return true
}

// At returns the entry at index i, where 0 is the most recent.
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i], true
}

// FromEnd returns the n-th entry counted from the oldest, where 1 is the oldest.
func (h *History) FromEnd(n int) (string, bool) {
	return h.At(len(h.entries) - n)
}

// Browsing reports whether the user is stepping through past entries.
func (h *History) Browsing() bool {
	return h.cursor != notBrowsing
}

// Reset stops browsing.
func (h *History) Reset() {
	h.cursor = notBrowsing
}

// Up steps to the next older entry and returns it.
// Browsing can only start from an empty line; it stops at the oldest entry.
func (h *History) Up(bufferEmpty bool) (string, bool) {
	if !h.Browsing() && !bufferEmpty {
		return "", false
	}
	if h.cursor+1 >= len(h.entries) {
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Down steps to the next newer entry and returns it.
// Stepping past the most recent entry ends browsing and returns an empty line.
func (h *History) Down() (string, bool) {
	if !h.Browsing() {
		return "", false
	}
	h.cursor--
	if h.cursor == notBrowsing {
		return "", true
	}
	return h.entries[h.cursor], true
}
