package keys

import (
	"sync"
	"time"
	"unicode/utf8"
)

// EscapeTimeout is how long a trailing ESC waits for the rest of a sequence
// before it is delivered as a standalone escape key.
const EscapeTimeout = 50 * time.Millisecond

// eolWindow is the longest gap between the two halves of a CR LF pair.
const eolWindow = 50 * time.Millisecond

// Decoder parses raw terminal bytes into keys and hands them to subscribers.
// Partial escape and UTF-8 sequences are kept across writes; a trailing ESC
// is held for EscapeTimeout so a sequence split across reads still decodes.
type Decoder struct {
	mu       sync.Mutex // Guards subscribers
	handlers map[int]func(Key)
	order    []int
	nextID   int

	// Input state, guarded by wmu. Keys are delivered with wmu held so
	// timer flushes and writes never interleave.
	wmu           sync.Mutex
	pending       []byte
	timer         *time.Timer
	gen           int
	escapeTimeout time.Duration
	lastEOL       byte // CR or LF just emitted, 0 otherwise
	eolAt         time.Time
	now           func() time.Time
}

// NewDecoder creates a decoder with no subscribers.
func NewDecoder() *Decoder {
	return &Decoder{
		handlers:      make(map[int]func(Key)),
		escapeTimeout: EscapeTimeout,
		now:           time.Now,
	}
}

// Subscribe registers handler for every decoded key.
func (d *Decoder) Subscribe(handler func(Key)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.handlers[id] = handler
	d.order = append(d.order, id)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.handlers, id)
			for i, v := range d.order {
				if v == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
			d.mu.Unlock()
		})
	}
}

// Write decodes p and delivers the resulting keys in order.
// It never fails; undecodable bytes become Undefined keys.
func (d *Decoder) Write(p []byte) (int, error) {
	d.wmu.Lock()
	defer d.wmu.Unlock()

	d.stopTimer()
	buf := append(d.pending, p...)
	d.pending = nil
	d.drain(buf, false)

	if len(d.pending) > 0 && d.pending[0] == 0x1b {
		d.startTimer()
	}
	return len(p), nil
}

// Flush delivers whatever is still pending: an unfinished escape sequence
// becomes an escape key followed by its remaining bytes.
func (d *Decoder) Flush() {
	d.wmu.Lock()
	defer d.wmu.Unlock()
	d.stopTimer()
	d.flush()
}

func (d *Decoder) flush() {
	buf := d.pending
	d.pending = nil
	d.drain(buf, true)
}

// drain decodes buf. Unless final, an incomplete tail is kept in pending.
func (d *Decoder) drain(buf []byte, final bool) {
	i := 0
	for i < len(buf) {
		k, n := decode(buf[i:])
		if n == 0 {
			if !final {
				d.pending = append([]byte(nil), buf[i:]...)
				return
			}
			if buf[i] == 0x1b {
				k, n = Named(Escape), 1
			} else {
				// Truncated UTF-8
				k, n = Char(utf8.RuneError), len(buf)-i
			}
		}
		i += n
		if d.collapseEOL(k) {
			continue
		}
		d.emit(k)
	}
}

func (d *Decoder) startTimer() {
	gen := d.gen
	d.timer = time.AfterFunc(d.escapeTimeout, func() {
		d.wmu.Lock()
		defer d.wmu.Unlock()
		if gen != d.gen {
			return // Superseded by a later write
		}
		d.timer = nil
		d.flush()
	})
}

func (d *Decoder) stopTimer() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// collapseEOL reports whether k is the second half of a CR LF or LF CR pair.
// The halves must arrive within eolWindow of each other.
func (d *Decoder) collapseEOL(k Key) bool {
	var eol byte
	switch {
	case k.Name == Return && !k.Ctrl:
		eol = '\r'
	case k.Name == Linefeed && !k.Ctrl:
		eol = '\n'
	}
	now := d.now()
	if eol != 0 && d.lastEOL != 0 && d.lastEOL != eol && now.Sub(d.eolAt) <= eolWindow {
		d.lastEOL = 0
		return true
	}
	d.lastEOL = eol
	d.eolAt = now
	return false
}

func (d *Decoder) emit(k Key) {
	d.mu.Lock()
	handlers := make([]func(Key), 0, len(d.order))
	for _, id := range d.order {
		handlers = append(handlers, d.handlers[id])
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(k)
	}
}

// decode parses one key from the front of buf.
// Returns the bytes consumed, or 0 if buf holds an incomplete sequence.
func decode(buf []byte) (Key, int) {
	b := buf[0]

	switch {
	case b == 0x1b:
		return decodeEscape(buf)

	case b == '\r':
		return Named(Return), 1

	case b == '\n':
		return Named(Linefeed), 1

	case b == '\t':
		return Named(Tab), 1

	case b == 0x7f || b == 0x08: // DEL or Ctrl+H
		return Named(Backspace), 1

	case b == 0:
		return Key{Name: Space, Ctrl: true}, 1

	case b == ' ':
		return Named(Space), 1

	case b >= 0x01 && b <= 0x1a: // Ctrl+A .. Ctrl+Z
		return Ctrl(rune('a' + b - 1)), 1

	case b < 0x20: // Ctrl+\ ] ^ _
		return Named(Undefined), 1

	case b < utf8.RuneSelf: // Printable ASCII
		return Char(rune(b)), 1
	}

	if !utf8.FullRune(buf) {
		return Key{}, 0
	}
	r, n := utf8.DecodeRune(buf)
	return Char(r), n
}

// decodeEscape parses a sequence starting with ESC.
func decodeEscape(buf []byte) (Key, int) {
	if len(buf) == 1 {
		// Could be the start of a sequence split across reads
		return Key{}, 0
	}

	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		if len(buf) < 3 {
			return Key{}, 0
		}
		if n, ok := ss3Keys[buf[2]]; ok {
			return Named(n), 3
		}
		return Named(Undefined), 3
	case 0x1b:
		return Named(Escape), 1
	}

	// ESC followed by an ordinary byte (Alt+key): report escape, then
	// let the next byte decode on its own
	return Named(Escape), 1
}

// decodeCSI parses ESC [ params final.
func decodeCSI(buf []byte) (Key, int) {
	end := -1
	for j := 2; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e {
			end = j
			break
		}
		if buf[j] < 0x20 || buf[j] > 0x3f {
			// Not a parameter byte, give up on this sequence
			return Named(Undefined), j
		}
	}
	if end < 0 {
		return Key{}, 0
	}

	params := string(buf[2:end])
	final := buf[end]
	n := end + 1

	if final == '~' {
		num, m := splitParams(params)
		name, ok := tildeKeys[num]
		if !ok {
			return Named(Undefined), n
		}
		return applyModifier(Named(name), m), n
	}

	name, ok := csiKeys[final]
	if !ok {
		return Named(Undefined), n
	}
	_, mod := splitParams(params)
	k := applyModifier(Named(name), mod)
	if final == 'Z' { // Shift+Tab
		k.Shift = true
	}
	return k, n
}

// splitParams splits "1;5" into "1" and "5".
func splitParams(params string) (num, mod string) {
	for i := 0; i < len(params); i++ {
		if params[i] == ';' {
			return params[:i], params[i+1:]
		}
	}
	return params, ""
}

// applyModifier decodes the xterm modifier parameter (1 + bitmask).
func applyModifier(k Key, mod string) Key {
	if len(mod) != 1 || mod[0] < '2' || mod[0] > '9' {
		return k
	}
	bits := mod[0] - '1'
	k.Shift = bits&1 != 0
	k.Ctrl = bits&4 != 0
	return k
}

// Final bytes of ESC [ sequences
var csiKeys = map[byte]Name{
	'A': Up,
	'B': Down,
	'C': Right,
	'D': Left,
	'E': Clear,
	'F': End,
	'H': Home,
	'P': F1,
	'Q': F2,
	'R': F3,
	'S': F4,
	'Z': Tab,
}

// Numeric parameters of ESC [ n ~ sequences
var tildeKeys = map[string]Name{
	"1":  Home,
	"2":  Insert,
	"3":  Delete,
	"4":  End,
	"5":  PageUp,
	"6":  PageDown,
	"7":  Home,
	"8":  End,
	"11": F1,
	"12": F2,
	"13": F3,
	"14": F4,
	"15": F5,
	"17": F6,
	"18": F7,
	"19": F8,
	"20": F9,
	"21": F10,
	"23": F11,
	"24": F12,
}

// Final bytes of ESC O sequences
var ss3Keys = map[byte]Name{
	'A': Up,
	'B': Down,
	'C': Right,
	'D': Left,
	'E': Clear,
	'F': End,
	'H': Home,
	'P': F1,
	'Q': F2,
	'R': F3,
	'S': F4,
}
