// Package readline implements an interactive prompt driven by decoded key events.
//
// An Editor owns the line buffer, the input history and, while a choice prompt
// is open, a selection session. Keys arrive from a keys.Source one at a time;
// each key updates state, produces a batch of render commands for the output
// sink, and then notifies listeners once the editor is unlocked, so listeners
// may call back into the editor.
package readline

import (
	"errors"
	"fmt"
	"sync"

	"lineui/history"
	"lineui/keys"
	"lineui/lineedit"
	"lineui/render"
	"lineui/selection"
)

// EOL is the line terminator used for rendering.
const EOL = render.EOL

// Defaults applied by New.
const (
	DefaultPrompt        = "> "
	DefaultHighWaterMark = 16
)

// ErrNoInput is returned by New when no key source is configured.
var ErrNoInput = errors.New("readline: input source is required")

// Config configures an Editor.
type Config struct {
	Prompt        string      // Static prompt text, DefaultPrompt if empty
	Input         keys.Source // Required
	Output        render.Sink // Optional; without it rendering is skipped
	Options       []string    // Initial option list for selection mode
	HighWaterMark int         // Queued lines before Paused reports true
}

// Selection is the outcome of a choice prompt.
type Selection struct {
	Choice    string
	Cancelled bool
}

// Editor is one interactive prompt session.
type Editor struct {
	mu sync.Mutex

	prompt    string
	line      *lineedit.Editor
	history   *history.History
	options   []string
	selection *selection.Session // Non-nil only while selecting

	out    render.Sink
	err    error
	closed bool
	unsub  func()
	queue  *lineQueue
	cmds   []render.Command
	events []event

	listeners listeners
}

// New creates an Editor and subscribes it to cfg.Input.
func New(cfg Config) (*Editor, error) {
	if cfg.Input == nil {
		return nil, ErrNoInput
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.HighWaterMark <= 0 {
		cfg.HighWaterMark = DefaultHighWaterMark
	}

	e := &Editor{
		prompt:  cfg.Prompt,
		line:    lineedit.New(),
		history: history.New(),
		options: append([]string(nil), cfg.Options...),
		out:     cfg.Output,
		queue:   newLineQueue(cfg.HighWaterMark),
	}
	e.unsub = cfg.Input.Subscribe(e.HandleKey)
	return e, nil
}

// lock acquires the editor; unlock renders pending commands, releases the
// editor and then delivers pending events.
func (e *Editor) lock() {
	e.mu.Lock()
}

func (e *Editor) unlock() {
	if e.out != nil && len(e.cmds) > 0 {
		if err := e.out.Render(e.cmds); err != nil && e.err == nil {
			e.err = fmt.Errorf("rendering: %w", err)
		}
	}
	e.cmds = e.cmds[:0]
	events := e.events
	e.events = nil
	e.mu.Unlock()

	e.listeners.dispatch(events)
}

func (e *Editor) render(cmds ...render.Command) {
	e.cmds = append(e.cmds, cmds...)
}

func (e *Editor) emit(ev event) {
	e.events = append(e.events, ev)
}

// Prompt redraws the prompt and the current line.
func (e *Editor) Prompt() {
	e.lock()
	defer e.unlock()
	e.renderPrompt()
}

func (e *Editor) renderPrompt() {
	e.render(render.PromptLine(e.prompt, e.line.Text(), e.line.Cursor())...)
}

// PromptOptions draws the option list below the prompt and hides the cursor.
func (e *Editor) PromptOptions() {
	e.lock()
	defer e.unlock()

	sess := e.selection
	if sess == nil {
		sess = selection.New(e.options)
	}
	e.render(render.OptionList(sess.Lines())...)
}

// SetSelectionMode enters or leaves selection mode.
// Entering requires a non-empty option list; an open selection keeps its choice.
func (e *Editor) SetSelectionMode(on bool) error {
	e.lock()
	defer e.unlock()

	if !on {
		if e.selection != nil {
			e.selection = nil
			e.render(render.ShowCursor())
		}
		return nil
	}
	if len(e.options) == 0 {
		return selection.ErrNoOptions
	}
	if e.selection == nil {
		e.history.Reset()
		e.selection = selection.New(e.options)
	}
	return nil
}

// SetOptions replaces the option list.
// Emptying the list of an open selection cancels it.
func (e *Editor) SetOptions(options []string) {
	e.lock()
	defer e.unlock()

	e.options = append([]string(nil), options...)
	if e.selection == nil {
		return
	}
	if len(e.options) == 0 {
		e.cancelSelection()
		return
	}
	e.selection.SetOptions(e.options)
}

// Close ends the session: it stops listening for keys, ends the line queue
// and notifies close listeners. Later calls do nothing.
func (e *Editor) Close() {
	e.lock()
	defer e.unlock()
	e.close()
}

func (e *Editor) close() {
	if e.closed {
		return
	}
	e.closed = true
	e.unsub()
	e.queue.end()
	e.emit(event{kind: eventClosed})
}

// Write passes raw bytes to the output sink, if any.
func (e *Editor) Write(p []byte) {
	e.lock()
	defer e.unlock()
	if e.out == nil {
		return
	}
	if _, err := e.out.Write(p); err != nil && e.err == nil {
		e.err = fmt.Errorf("writing: %w", err)
	}
}

// ClearLine ends the current row and empties the buffer.
func (e *Editor) ClearLine() {
	e.lock()
	defer e.unlock()
	e.clearLine()
}

func (e *Editor) clearLine() {
	e.render(render.LineBreak()...)
	e.line.Clear()
}

// Line returns the text being edited.
func (e *Editor) Line() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.line.Text()
}

// Cursor returns the cursor offset within the line.
func (e *Editor) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.line.Cursor()
}

// Selecting reports whether a choice prompt is open.
func (e *Editor) Selecting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection != nil
}

// Choice returns the highlighted option index while selecting.
func (e *Editor) Choice() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection == nil {
		return 0, false
	}
	return e.selection.Index(), true
}

// History returns the committed lines, most recent first.
func (e *Editor) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Entries()
}

// Closed reports whether the session has ended.
func (e *Editor) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Err returns the first error reported by the output sink.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
