package sdl

import (
	"fmt"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/driver"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface

	pixelSize int32
	logger    *log.Logger
}

// NewIO returns a new I/O instance for the SDL frontend. Every CHIP-8 pixel
// is drawn as a square of scale window pixels.
func NewIO(scale int, logger *log.Logger) *IO {
	return &IO{
		pixelSize: int32(scale),
		logger:    logger,
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window

	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		io.Destroy()
		return fmt.Errorf("clearing window surface: %w", err)
	}

	io.logger.Debug("Window created",
		log.Int("width", int(internal.ScreenWidth*io.pixelSize)),
		log.Int("height", int(internal.ScreenHeight*io.pixelSize)))
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		_ = io.window.Destroy()
		io.window = nil
	}
	sdl.Quit()
}

// Poll forwards pending SDL events to the sink.
//
// Escape quits, Backspace restarts the program and Space pauses.
func (io *IO) Poll(sink driver.Sink) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			io.keyEvent(t, sink)
		case *sdl.QuitEvent:
			sink.Send(driver.Event{Kind: driver.Quit})
		}
	}
}

func (io *IO) keyEvent(t *sdl.KeyboardEvent, sink driver.Sink) {
	if t.Repeat != 0 {
		return
	}
	scancode := t.Keysym.Scancode

	if key, ok := keymap(scancode); ok {
		switch t.GetType() {
		case sdl.KEYDOWN:
			sink.Send(driver.Event{Kind: driver.KeyDown, Key: key})
		case sdl.KEYUP:
			sink.Send(driver.Event{Kind: driver.KeyUp, Key: key})
		}
		return
	}

	if t.GetType() != sdl.KEYDOWN {
		return
	}
	switch scancode {
	case sdl.SCANCODE_ESCAPE:
		sink.Send(driver.Event{Kind: driver.Quit})
	case sdl.SCANCODE_BACKSPACE:
		sink.Send(driver.Event{Kind: driver.Reset})
	case sdl.SCANCODE_SPACE:
		sink.Send(driver.Event{Kind: driver.TogglePause})
	}
}

// Render draws the current sprite configuration on screen
func (io *IO) Render(display internal.Display) error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}

	for w := int32(0); w < internal.ScreenWidth; w++ {
		for h := int32(0); h < internal.ScreenHeight; h++ {
			if !display.Pixel(int(w), int(h)) {
				continue
			}
			rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
			if err := io.surface.FillRect(rect, spriteColor); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}

	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window surface: %w", err)
	}
	return nil
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var keys = map[sdl.Scancode]uint8{
	sdl.SCANCODE_1: 0x1,
	sdl.SCANCODE_2: 0x2,
	sdl.SCANCODE_3: 0x3,
	sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_Q: 0x4,
	sdl.SCANCODE_W: 0x5,
	sdl.SCANCODE_E: 0x6,
	sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_A: 0x7,
	sdl.SCANCODE_S: 0x8,
	sdl.SCANCODE_D: 0x9,
	sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_Z: 0xA,
	sdl.SCANCODE_X: 0x0,
	sdl.SCANCODE_C: 0xB,
	sdl.SCANCODE_V: 0xF,
}

func keymap(code sdl.Scancode) (uint8, bool) {
	key, ok := keys[code]
	return key, ok
}
