package readline

import "sync"

type eventKind uint8

const (
	eventLine eventKind = iota
	eventHistory
	eventSelection
	eventClosed
)

// event is a notification recorded while the editor is locked and
// delivered after it is released.
type event struct {
	kind      eventKind
	text      string
	entries   []string
	selection Selection
}

// listeners holds the registered callbacks per event.
type listeners struct {
	mu        sync.Mutex
	line      []func(string)
	history   []func([]string)
	selection []func(Selection)
	closed    []func()
}

// OnLine registers fn for every committed line, including bare newlines
// which are reported as "". It fires synchronously, regardless of whether
// the ReadLine queue has been drained.
func (e *Editor) OnLine(fn func(line string)) {
	e.listeners.mu.Lock()
	e.listeners.line = append(e.listeners.line, fn)
	e.listeners.mu.Unlock()
}

// OnHistory registers fn to receive the history after each commit.
func (e *Editor) OnHistory(fn func(entries []string)) {
	e.listeners.mu.Lock()
	e.listeners.history = append(e.listeners.history, fn)
	e.listeners.mu.Unlock()
}

// OnSelection registers fn for choice prompt results.
func (e *Editor) OnSelection(fn func(Selection)) {
	e.listeners.mu.Lock()
	e.listeners.selection = append(e.listeners.selection, fn)
	e.listeners.mu.Unlock()
}

// OnClose registers fn to run once when the session ends.
func (e *Editor) OnClose(fn func()) {
	e.listeners.mu.Lock()
	e.listeners.closed = append(e.listeners.closed, fn)
	e.listeners.mu.Unlock()
}

func (l *listeners) dispatch(events []event) {
	if len(events) == 0 {
		return
	}

	l.mu.Lock()
	line := append(([]func(string))(nil), l.line...)
	history := append(([]func([]string))(nil), l.history...)
	sel := append(([]func(Selection))(nil), l.selection...)
	closed := append(([]func())(nil), l.closed...)
	l.mu.Unlock()

	for _, ev := range events {
		switch ev.kind {
		case eventLine:
			for _, fn := range line {
				fn(ev.text)
			}
		case eventHistory:
			for _, fn := range history {
				fn(append([]string(nil), ev.entries...))
			}
		case eventSelection:
			for _, fn := range sel {
				fn(ev.selection)
			}
		case eventClosed:
			for _, fn := range closed {
				fn()
			}
		}
	}
}
