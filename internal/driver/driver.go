// Package driver paces a CHIP-8 VM against wall-clock time and connects it
// to a frontend that renders the display and produces input events.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultFrameRate is the number of frames per second, matching the timer rate.
	DefaultFrameRate = internal.TimerFrequency

	defaultQueueSize = 64
)

// EventKind is the type of an input event.
type EventKind uint8

// Input events produced by frontends.
const (
	KeyDown EventKind = iota
	KeyUp
	Reset
	TogglePause
	Quit
)

// Event is an input event. Key is only used by KeyDown and KeyUp.
type Event struct {
	Kind EventKind
	Key  uint8
}

// Sink receives input events. Send never blocks and may be called from any
// goroutine.
type Sink interface {
	Send(ev Event)
}

// Frontend renders the display and forwards user input.
type Frontend interface {
	// Poll forwards pending input to the sink, it is called on the driver
	// goroutine once per frame.
	Poll(sink Sink)
	// Render draws the display, it is only called after the display changed.
	Render(display internal.Display) error
}

// Driver runs the VM at a fixed number of cycles per frame.
type Driver struct {
	vm       *internal.C8VM
	frontend Frontend
	logger   *log.Logger

	cyclesPerFrame int
	frameRate      int
	romPath        string
	paused         bool

	events chan Event
}

// Option configures a Driver.
type Option func(*Driver)

// WithCyclesPerFrame sets the number of VM cycles run per frame.
// Values below 1 are treated as 1.
func WithCyclesPerFrame(n int) Option {
	return func(d *Driver) {
		if n < 1 {
			n = 1
		}
		d.cyclesPerFrame = n
	}
}

// WithFrameRate sets the number of frames per second.
func WithFrameRate(hz int) Option {
	return func(d *Driver) {
		if hz > 0 {
			d.frameRate = hz
		}
	}
}

// WithROM sets the ROM file that is loaded again after a Reset event.
func WithROM(path string) Option {
	return func(d *Driver) {
		d.romPath = path
	}
}

// WithQueueSize sets the capacity of the input event queue.
func WithQueueSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.events = make(chan Event, n)
		}
	}
}

// New returns a driver for an initialized VM with a loaded program.
func New(vm *internal.C8VM, frontend Frontend, logger *log.Logger, opts ...Option) *Driver {
	d := &Driver{
		vm:             vm,
		frontend:       frontend,
		logger:         logger,
		cyclesPerFrame: internal.DefaultCyclesPerTimerTick,
		frameRate:      DefaultFrameRate,
		events:         make(chan Event, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send queues an input event. Events are dropped when the queue is full.
func (d *Driver) Send(ev Event) {
	select {
	case d.events <- ev:
	default:
		d.logger.Warn("Input queue full, dropping event",
			log.Uint8("kind", uint8(ev.Kind)),
			log.Uint8("key", ev.Key))
	}
}

// Paused returns whether execution is paused.
func (d *Driver) Paused() bool {
	return d.paused
}

// Run executes frames until the frontend sends a Quit event, a cycle fails
// or the context is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(d.frameRate))
	defer ticker.Stop()

	d.logger.Debug("Starting emulation",
		log.Int("cycles_per_frame", d.cyclesPerFrame),
		log.Int("frame_rate", d.frameRate))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.frontend.Poll(d)
			quit, err := d.Frame()
			if err != nil {
				return err
			}
			if quit {
				d.logger.Debug("Emulation stopped by user")
				return nil
			}
		}
	}
}

// Frame runs one frame worth of cycles, draining queued input before every
// cycle, and renders the display if it changed. It returns true when a
// Quit event was received.
func (d *Driver) Frame() (bool, error) {
	for i := 0; i < d.cyclesPerFrame; i++ {
		quit, err := d.drain()
		if quit || err != nil {
			return quit, err
		}
		if d.paused {
			break
		}

		if err := d.vm.Cycle(); err != nil {
			return false, d.fail(err)
		}
	}

	if !d.vm.IsDrawFlagSet() {
		return false, nil
	}
	if err := d.frontend.Render(d.vm.Display()); err != nil {
		return false, fmt.Errorf("rendering display: %w", err)
	}
	d.vm.UnsetDrawFlag()
	return false, nil
}

// drain applies all queued events to the VM.
func (d *Driver) drain() (bool, error) {
	for {
		select {
		case ev := <-d.events:
			quit, err := d.handle(ev)
			if quit || err != nil {
				return quit, err
			}
		default:
			return false, nil
		}
	}
}

func (d *Driver) handle(ev Event) (bool, error) {
	switch ev.Kind {
	case KeyDown:
		d.vm.KeyDown(ev.Key)
	case KeyUp:
		d.vm.KeyUp(ev.Key)
	case Reset:
		return false, d.reset()
	case TogglePause:
		d.paused = !d.paused
		if d.paused {
			d.logger.Info("Emulation paused")
		} else {
			d.logger.Info("Emulation resumed")
		}
	case Quit:
		return true, nil
	}
	return false, nil
}

func (d *Driver) reset() error {
	d.vm.Reset()
	if d.romPath == "" {
		return nil
	}
	if err := d.vm.LoadFile(d.romPath); err != nil {
		return fmt.Errorf("resetting: %w", err)
	}
	d.logger.Info("Program restarted", log.String("file", d.romPath))
	return nil
}

// fail wraps the error of a failed cycle with the last executed
// instruction. Logging is left to the caller of Run.
func (d *Driver) fail(err error) error {
	opcode := d.vm.Opcode()
	return fmt.Errorf("running cycle: pc $%04X, opcode %04X (%s): %w",
		d.vm.PC(), opcode, disasm.Disassemble(opcode), err)
}
