// Package term implements a terminal frontend. The display is drawn with
// Unicode half blocks, two CHIP-8 rows per text line, and the keypad is read
// from raw standard input.
//
// Terminals report key presses only, a key counts as released after it was
// not seen for a number of frames.
package term

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/driver"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// DefaultReleaseFrames is the number of frames after which a key that was
// not repeated counts as released.
const DefaultReleaseFrames = 10

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"

	inputBufferSize = 64
)

const (
	keyCtrlC     = 0x03
	keyBackspace = 0x08
	keyEscape    = 0x1B
	keyDelete    = 0x7F
)

// Terminal is the input/output abstraction layer for a text terminal.
type Terminal struct {
	in     io.Reader
	out    io.Writer
	logger *log.Logger

	fd       int
	oldState *term.State

	input   chan byte
	stop    chan struct{}
	done    chan struct{}
	stopped sync.Once

	escape        int // 0 outside, 1 after ESC, 2 inside a control sequence
	escapeFrames  int // polls a lone ESC has been pending
	releaseFrames int
	held          [16]int // frames left until a key is released
	frame         bytes.Buffer
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithReleaseFrames sets after how many frames without input a key counts
// as released. Values below 1 are treated as 1.
func WithReleaseFrames(n int) Option {
	return func(t *Terminal) {
		if n < 1 {
			n = 1
		}
		t.releaseFrames = n
	}
}

// New returns a terminal frontend reading keys from in and drawing to out.
func New(in io.Reader, out io.Writer, logger *log.Logger, opts ...Option) *Terminal {
	t := &Terminal{
		in:            in,
		out:           out,
		logger:        logger,
		input:         make(chan byte, inputBufferSize),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		releaseFrames: DefaultReleaseFrames,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start switches the input to raw mode if it is a terminal, clears the
// screen and starts reading input in the background.
func (t *Terminal) Start() error {
	if f, ok := t.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("setting raw mode: %w", err)
		}
		t.fd = fd
		t.oldState = state
		t.logger.Debug("Terminal switched to raw mode")
	}

	if _, err := io.WriteString(t.out, clearScreen+hideCursor); err != nil {
		t.Stop()
		return fmt.Errorf("clearing screen: %w", err)
	}

	go t.read()
	return nil
}

// Stop shows the cursor again and restores the terminal state. A read that
// is blocked on the input cannot be interrupted, the reader goroutine exits
// once that read returns or the input is closed.
func (t *Terminal) Stop() {
	t.stopped.Do(func() {
		close(t.stop)
	})
	_, _ = io.WriteString(t.out, showCursor+"\r\n")
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

func (t *Terminal) read() {
	defer close(t.done)
	buf := make([]byte, 16)
	for {
		n, err := t.in.Read(buf)
		select {
		case <-t.stop:
			return
		default:
		}

		for _, b := range buf[:n] {
			select {
			case t.input <- b:
			default:
			}
		}
		if err != nil {
			if err != io.EOF {
				t.logger.Error("Reading input failed", log.Err(err))
			}
			return
		}
	}
}

// Poll forwards the input read since the last frame to the sink.
//
// Escape or Ctrl+C quits, Backspace restarts the program and Space pauses.
// A lone ESC is only taken as Escape when no control sequence follows it
// by the next frame.
func (t *Terminal) Poll(sink driver.Sink) {
	var seen [16]bool
	for {
		select {
		case b := <-t.input:
			t.handleByte(b, sink, &seen)
		default:
			if t.escape == 1 {
				t.escapeFrames++
				if t.escapeFrames > 1 {
					t.escape = 0
					sink.Send(driver.Event{Kind: driver.Quit})
				}
			}
			t.release(sink, &seen)
			return
		}
	}
}

func (t *Terminal) handleByte(b byte, sink driver.Sink, seen *[16]bool) {
	switch t.escape {
	case 1:
		if b == '[' || b == 'O' {
			t.escape = 2
			return
		}
		t.escape = 0
		sink.Send(driver.Event{Kind: driver.Quit})
	case 2:
		if b >= 0x40 && b <= 0x7E {
			t.escape = 0
		}
		return
	}

	switch b {
	case keyEscape:
		t.escape = 1
		t.escapeFrames = 0
	case keyCtrlC:
		sink.Send(driver.Event{Kind: driver.Quit})
	case keyBackspace, keyDelete:
		sink.Send(driver.Event{Kind: driver.Reset})
	case ' ':
		sink.Send(driver.Event{Kind: driver.TogglePause})
	default:
		key, ok := keymap(b)
		if !ok {
			return
		}
		seen[key] = true
		if t.held[key] == 0 {
			sink.Send(driver.Event{Kind: driver.KeyDown, Key: key})
		}
		t.held[key] = t.releaseFrames
	}
}

// release counts down held keys that were not seen this frame.
func (t *Terminal) release(sink driver.Sink, seen *[16]bool) {
	for key := range t.held {
		if t.held[key] == 0 || seen[key] {
			continue
		}
		t.held[key]--
		if t.held[key] == 0 {
			sink.Send(driver.Event{Kind: driver.KeyUp, Key: uint8(key)})
		}
	}
}

// Render draws the display using half block characters.
func (t *Terminal) Render(display internal.Display) error {
	t.frame.Reset()
	t.frame.WriteString(cursorHome)
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := 0; x < internal.ScreenWidth; x++ {
			t.frame.WriteString(halfBlock(display.Pixel(x, y), display.Pixel(x, y+1)))
		}
		t.frame.WriteString("\r\n")
	}

	if _, err := t.out.Write(t.frame.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func halfBlock(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}

// Same layout as the SDL frontend
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var keys = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

func keymap(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keys[b]
	return key, ok
}
