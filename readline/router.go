package readline

import (
	"strings"
	"unicode"

	"lineui/keys"
	"lineui/render"
)

// ignoredKeys never change state. Escape is listed because outside a choice
// prompt it does nothing; while selecting it cancels.
var ignoredKeys = map[keys.Name]bool{
	keys.Escape:    true,
	keys.F1:        true,
	keys.F2:        true,
	keys.F3:        true,
	keys.F4:        true,
	keys.F5:        true,
	keys.F6:        true,
	keys.F7:        true,
	keys.F8:        true,
	keys.F9:        true,
	keys.F10:       true,
	keys.F11:       true,
	keys.F12:       true,
	keys.Clear:     true,
	keys.End:       true,
	keys.Home:      true,
	keys.PageUp:    true,
	keys.PageDown:  true,
	keys.Insert:    true,
	keys.Delete:    true,
	keys.Tab:       true,
	keys.Undefined: true,
}

// Ignored reports whether k is a no-op in the given mode.
func Ignored(k keys.Key, selecting bool) bool {
	if k.Name == keys.Escape && selecting {
		return false
	}
	return ignoredKeys[k.Name]
}

var cancelNotice = render.Style{FgColor: render.ColorBrightRed}

// HandleKey processes one key. Keys arriving after Close are dropped.
func (e *Editor) HandleKey(k keys.Key) {
	e.lock()
	defer e.unlock()
	if e.closed {
		return
	}
	e.route(k)
}

func (e *Editor) route(k keys.Key) {
	switch k.Name {
	case keys.Up:
		e.onUp()
		return
	case keys.Down:
		e.onDown()
		return
	}

	selecting := e.selection != nil
	if !selecting {
		e.history.Reset()
	}

	var chars string

	switch k.Name {
	case keys.Backspace:
		if !selecting {
			e.onBackspace()
		}
		return

	case keys.Return, keys.Linefeed:
		e.onReturn()
		return

	case keys.Right:
		e.onRight()
		return

	case keys.Left:
		e.onLeft()
		return

	case keys.Escape:
		if selecting {
			e.cancelSelection()
			return
		}
	}

	if Ignored(k, selecting) {
		return
	}

	switch {
	case k.Name == keys.Rune && (k.Rune == 'c' || k.Rune == 'd'):
		if k.Ctrl {
			e.close()
			return
		}
		// Typed literally; dropped while selecting
		chars = literal(k)

	case k.Name == keys.Space:
		chars = " "

	case selecting:
		// Stray keys still move the choice
		e.onUp()
		return

	default:
		chars = literal(k)
	}

	if selecting {
		return
	}
	e.line.InsertString(chars)
	e.renderPrompt()
}

// literal returns the character typed by k.
func literal(k keys.Key) string {
	if k.Shift {
		return string(unicode.ToUpper(k.Rune))
	}
	return string(k.Rune)
}

func (e *Editor) onUp() {
	if e.selection != nil {
		e.selection.Prev()
		e.renderOptions()
		return
	}
	text, ok := e.history.Up(e.line.Empty())
	if !ok {
		return
	}
	e.line.Set(text)
	e.renderPrompt()
}

func (e *Editor) onDown() {
	if e.selection != nil {
		e.selection.Next()
		e.renderOptions()
		return
	}
	text, ok := e.history.Down()
	if !ok {
		return
	}
	e.line.Set(text)
	e.renderPrompt()
}

func (e *Editor) renderOptions() {
	if e.selection.Len() == 0 {
		return
	}
	e.render(render.CycleOptions(e.selection.Lines())...)
}

func (e *Editor) onBackspace() {
	if !e.line.DeleteBackward() {
		return
	}
	e.render(render.CursorBack(2))
	e.renderPrompt()
}

func (e *Editor) onLeft() {
	if e.selection != nil {
		return
	}
	if e.line.Left() {
		e.render(render.CursorBack(1))
	}
}

func (e *Editor) onRight() {
	if e.selection != nil {
		return
	}
	if e.line.Right() {
		e.render(render.CursorForward(1))
	}
}

func (e *Editor) onReturn() {
	if e.selection != nil {
		e.commitSelection()
		return
	}

	if e.line.Empty() {
		// Bare newline: notify line listeners only
		e.emit(event{kind: eventLine})
		return
	}

	text := e.line.Text()
	if strings.TrimSpace(text) == "" {
		return
	}
	e.history.Push(text)
	e.queue.push(text)
	e.emit(event{kind: eventLine, text: text})
	e.emit(event{kind: eventHistory, entries: e.history.Entries()})
	e.clearLine()
}

func (e *Editor) commitSelection() {
	choice, err := e.selection.Choice()
	if err != nil {
		e.cancelSelection()
		return
	}
	e.clearLine()
	e.selection = nil
	e.emit(event{kind: eventSelection, selection: Selection{Choice: choice}})
	e.render(render.ShowCursor())
}

func (e *Editor) cancelSelection() {
	e.render(render.Notice("No option selected", cancelNotice)...)
	e.clearLine()
	e.render(render.ShowCursor())
	e.selection = nil
	e.emit(event{kind: eventSelection, selection: Selection{Cancelled: true}})
}
