package keys

import (
	"reflect"
	"sync"
	"testing"
	"time"
	"unicode/utf8"
)

// collect subscribes to d and returns a pointer to the keys received.
func collect(d *Decoder) *[]Key {
	var got []Key
	d.Subscribe(func(k Key) { got = append(got, k) })
	return &got
}

func TestDecodeSingleBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Key
	}{
		{"letter", "a", Char('a')},
		{"upper letter", "A", Key{Name: Rune, Rune: 'a', Shift: true}},
		{"digit", "7", Char('7')},
		{"punctuation", "?", Char('?')},
		{"space", " ", Named(Space)},
		{"return", "\r", Named(Return)},
		{"linefeed", "\n", Named(Linefeed)},
		{"tab", "\t", Named(Tab)},
		{"del", "\x7f", Named(Backspace)},
		{"ctrl h", "\x08", Named(Backspace)},
		{"ctrl c", "\x03", Key{Name: Rune, Rune: 'c', Ctrl: true}},
		{"ctrl d", "\x04", Key{Name: Rune, Rune: 'd', Ctrl: true}},
		{"ctrl a", "\x01", Key{Name: Rune, Rune: 'a', Ctrl: true}},
		{"ctrl backslash", "\x1c", Named(Undefined)},
		{"utf8", "é", Char('é')},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			got := collect(d)
			d.Write([]byte(tt.in))
			if len(*got) != 1 || (*got)[0] != tt.want {
				t.Errorf("expected [%+v], got %+v", tt.want, *got)
			}
		})
	}
}

func TestDecodeSequences(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"\x1b[A", Named(Up)},
		{"\x1b[B", Named(Down)},
		{"\x1b[C", Named(Right)},
		{"\x1b[D", Named(Left)},
		{"\x1bOA", Named(Up)},
		{"\x1b[H", Named(Home)},
		{"\x1b[F", Named(End)},
		{"\x1b[E", Named(Clear)},
		{"\x1b[1~", Named(Home)},
		{"\x1b[2~", Named(Insert)},
		{"\x1b[3~", Named(Delete)},
		{"\x1b[4~", Named(End)},
		{"\x1b[5~", Named(PageUp)},
		{"\x1b[6~", Named(PageDown)},
		{"\x1bOP", Named(F1)},
		{"\x1bOS", Named(F4)},
		{"\x1b[15~", Named(F5)},
		{"\x1b[24~", Named(F12)},
		{"\x1b[Z", Key{Name: Tab, Shift: true}},
		{"\x1b[1;2A", Key{Name: Up, Shift: true}},
		{"\x1b[1;5D", Key{Name: Left, Ctrl: true}},
		{"\x1b[3;5~", Key{Name: Delete, Ctrl: true}},
		{"\x1b[99~", Named(Undefined)},
		{"\x1b[y", Named(Undefined)},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			d := NewDecoder()
			got := collect(d)
			d.Write([]byte(tt.in))
			if len(*got) != 1 || (*got)[0] != tt.want {
				t.Errorf("%q: expected [%+v], got %+v", tt.in, tt.want, *got)
			}
		})
	}
}

func TestDecodeMixedStream(t *testing.T) {
	d := NewDecoder()
	got := collect(d)
	d.Write([]byte("hi\x1b[Dx\x7f"))

	want := []Key{Char('h'), Char('i'), Named(Left), Char('x'), Named(Backspace)}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func TestDecodeSplitSequence(t *testing.T) {
	d := NewDecoder()
	d.escapeTimeout = time.Hour
	got := collect(d)

	d.Write([]byte("\x1b["))
	if len(*got) != 0 {
		t.Fatalf("incomplete CSI should be held, got %+v", *got)
	}
	d.Write([]byte("A"))
	if len(*got) != 1 || (*got)[0] != Named(Up) {
		t.Errorf("expected up after completing sequence, got %+v", *got)
	}

	// Split UTF-8 rune
	*got = nil
	b := []byte("ü")
	d.Write(b[:1])
	if len(*got) != 0 {
		t.Fatalf("partial rune should be held, got %+v", *got)
	}
	d.Write(b[1:])
	if len(*got) != 1 || (*got)[0] != Char('ü') {
		t.Errorf("expected ü, got %+v", *got)
	}
}

func TestDecodeSplitAfterEscape(t *testing.T) {
	d := NewDecoder()
	d.escapeTimeout = time.Hour
	got := collect(d)

	d.Write([]byte("\x1b"))
	if len(*got) != 0 {
		t.Fatalf("trailing escape should be held, got %+v", *got)
	}
	d.Write([]byte("[B"))
	want := []Key{Named(Down)}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("expected %+v, got %+v", want, *got)
	}

	*got = nil
	d.Write([]byte("\x1b"))
	d.Write([]byte("O"))
	d.Write([]byte("A"))
	want = []Key{Named(Up)}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func TestDecodeEscapeTimeout(t *testing.T) {
	d := NewDecoder()
	d.escapeTimeout = time.Millisecond

	var mu sync.Mutex
	var got []Key
	done := make(chan struct{}, 1)
	d.Subscribe(func(k Key) {
		mu.Lock()
		got = append(got, k)
		mu.Unlock()
		done <- struct{}{}
	})

	d.Write([]byte("\x1b"))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("escape not delivered after timeout")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != Named(Escape) {
		t.Errorf("expected [escape], got %+v", got)
	}
}

func TestDecodeEscapePairs(t *testing.T) {
	d := NewDecoder()
	d.escapeTimeout = time.Hour
	got := collect(d)

	// The first escape is complete once another follows
	d.Write([]byte("\x1b\x1b"))
	if len(*got) != 1 || (*got)[0] != Named(Escape) {
		t.Fatalf("expected one escape, got %+v", *got)
	}
	d.Flush()
	want := []Key{Named(Escape), Named(Escape)}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func TestFlush(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"nothing pending", "a", []Key{Char('a')}},
		{"lone escape", "\x1b", []Key{Named(Escape)}},
		{"unfinished csi", "\x1b[", []Key{Named(Escape), Char('[')}},
		{"partial rune", "\xc3", []Key{Char(utf8.RuneError)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			d.escapeTimeout = time.Hour
			got := collect(d)
			d.Write([]byte(tt.in))
			d.Flush()
			d.Flush() // nothing left the second time
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

func TestDecodeCollapsesLineEndings(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   []Key
	}{
		{"crlf", []string{"\r\n"}, []Key{Named(Return)}},
		{"lfcr", []string{"\n\r"}, []Key{Named(Linefeed)}},
		{"crlf split", []string{"\r", "\n"}, []Key{Named(Return)}},
		{"two crlf", []string{"\r\n\r\n"}, []Key{Named(Return), Named(Return)}},
		{"cr cr", []string{"\r\r"}, []Key{Named(Return), Named(Return)}},
		{"cr x lf", []string{"\rx\n"}, []Key{Named(Return), Char('x'), Named(Linefeed)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			got := collect(d)
			for _, w := range tt.writes {
				d.Write([]byte(w))
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

func TestLineEndingsApartAreSeparate(t *testing.T) {
	d := NewDecoder()
	now := time.Unix(0, 0)
	d.now = func() time.Time { return now }
	got := collect(d)

	d.Write([]byte("\r"))
	now = now.Add(time.Second)
	d.Write([]byte("\n"))

	want := []Key{Named(Return), Named(Linefeed)}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("expected %+v, got %+v", want, *got)
	}

	// A pair inside the window still collapses
	*got = nil
	d.Write([]byte("\r"))
	now = now.Add(eolWindow / 2)
	d.Write([]byte("\n"))
	want = []Key{Named(Return)}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func TestUnsubscribe(t *testing.T) {
	d := NewDecoder()
	var a, b int
	unsubA := d.Subscribe(func(Key) { a++ })
	d.Subscribe(func(Key) { b++ })

	d.Write([]byte("x"))
	unsubA()
	unsubA() // second call is a no-op
	d.Write([]byte("y"))

	if a != 1 || b != 2 {
		t.Errorf("expected a=1 b=2, got a=%d b=%d", a, b)
	}
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	d := NewDecoder()
	var got []Key
	var unsub func()
	unsub = d.Subscribe(func(k Key) {
		got = append(got, k)
		if k == Ctrl('d') {
			unsub()
		}
	})
	d.Write([]byte("a\x04b"))

	want := []Key{Char('a'), Ctrl('d')}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestKeyString(t *testing.T) {
	if s := Named(PageUp).String(); s != "pageup" {
		t.Errorf("expected pageup, got %q", s)
	}
	if s := Char('z').String(); s != "z" {
		t.Errorf("expected z, got %q", s)
	}
}
