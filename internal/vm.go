package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	stackDepth     = 16
	registerCount  = 16
	keyCount       = 16
	opcodeSize     = 2
	fontGlyphSize  = 5

	// TimerFrequency is the fixed rate in Hz at which DT and ST count down.
	TimerFrequency = 60
	// DefaultClockHz is the default number of instructions per second.
	DefaultClockHz = 500
	// DefaultCyclesPerTimerTick keeps the timers at 60 Hz for DefaultClockHz.
	DefaultCyclesPerTimerTick = DefaultClockHz / TimerFrequency

	// ProgramAddress is where programs are loaded and execution starts.
	ProgramAddress = pcStartAddr
	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = maxProgramSize

	ScreenWidth  = 64
	ScreenHeight = 32
)

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	opcode     uint16               // 16-bit opcode of the current instruction
	regV       [registerCount]uint8 // 16 general purpose 8-bit registers
	regI       uint16               // 16-bit register that is generally used to store memory addresses
	delayTimer uint8                // Delay timer
	soundTimer uint8                // Sound timer
	pc         uint16               // Program counter
	sp         uint8                // Stack pointer, number of occupied stack entries
	stack      [stackDepth]uint16   // A stack of 16 16-bit values
	memory     [totalMemory]uint8   // 4 KB global memory

	keys  [keyCount]bool // Pressed state of the 16 keypad keys
	state RunState       // Running or waiting for a key press

	timerCycles        int // Cycles counted since the last timer tick
	cyclesPerTimerTick int // Cycles that make up one 60 Hz timer tick

	drawFlag bool // Display changed since the frontend last drew it

	pixels Display // 64 px x 32 px display

	rng    *rand.Rand
	logger *log.Logger
	trace  bool
}

// Fontset holds the 16 hexadecimal digit sprites, loaded at address 0x000.
var Fontset = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Option configures a C8VM at construction time.
type Option func(*C8VM)

// WithLogger sets the logger used for debug output and instruction traces.
func WithLogger(logger *log.Logger) Option {
	return func(vm *C8VM) {
		vm.logger = logger
	}
}

// WithCyclesPerTimerTick sets how many cycles make up one 60 Hz timer tick.
// Values below 1 are treated as 1.
func WithCyclesPerTimerTick(n int) Option {
	return func(vm *C8VM) {
		if n < 1 {
			n = 1
		}
		vm.cyclesPerTimerTick = n
	}
}

// WithRandSource sets the source used by the RND instruction.
func WithRandSource(src rand.Source) Option {
	return func(vm *C8VM) {
		vm.rng = rand.New(src)
	}
}

// WithTrace enables debug logging of every executed instruction.
func WithTrace(enabled bool) Option {
	return func(vm *C8VM) {
		vm.trace = enabled
	}
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) *C8VM {
	vm := &C8VM{
		cyclesPerTimerTick: DefaultCyclesPerTimerTick,
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.logger == nil {
		vm.logger = log.NewWithConfig(log.DefaultConfig())
	}
	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	vm.Reset()
	return vm
}

// Reset re-initializes the VM: memory is zeroed apart from the font set,
// registers, stack, timers, keypad and display are cleared and the PC is
// set back to the program start. A loaded program is lost.
func (vm *C8VM) Reset() {
	vm.memory = [totalMemory]uint8{}
	copy(vm.memory[:], Fontset[:])

	vm.opcode = 0
	vm.regV = [registerCount]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.sp = 0
	vm.stack = [stackDepth]uint16{}
	vm.keys = [keyCount]bool{}
	vm.state = Running
	vm.timerCycles = 0
	vm.pixels = Display{}
	vm.drawFlag = true

	vm.logger.Debug("VM reset")
}

// LoadProgram copies a given CHIP-8 program into the VM's memory at 0x200.
// Registers and timers are left untouched.
func (vm *C8VM) LoadProgram(data []byte) error {
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, size, maxProgramSize)
	}
	copy(vm.memory[pcStartAddr:], data)

	vm.logger.Debug("Program loaded",
		log.Hex("address", uint16(pcStartAddr)),
		log.Hex("size", uint16(size)))
	return nil
}

// LoadFile reads a ROM file from disk and loads it as the program.
func (vm *C8VM) LoadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program '%s': %w", filename, err)
	}
	return vm.LoadProgram(data)
}

// PC returns the program counter.
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// SP returns the current stack depth.
func (vm *C8VM) SP() uint8 {
	return vm.sp
}

// I returns the index register.
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// Opcode returns the instruction word fetched by the last executed cycle.
func (vm *C8VM) Opcode() uint16 {
	return vm.opcode
}

// V returns the value of register Vx.
func (vm *C8VM) V(x uint8) (uint8, error) {
	if x >= registerCount {
		return 0, fmt.Errorf("%w: V%d", ErrInvalidRegister, x)
	}
	return vm.regV[x], nil
}

// SetV sets register Vx.
func (vm *C8VM) SetV(x, value uint8) error {
	if x >= registerCount {
		return fmt.Errorf("%w: V%d", ErrInvalidRegister, x)
	}
	vm.regV[x] = value
	return nil
}

// Registers returns a copy of V0-VF.
func (vm *C8VM) Registers() [registerCount]uint8 {
	return vm.regV
}

// Memory returns the byte at addr.
func (vm *C8VM) Memory(addr uint16) (uint8, error) {
	if int(addr) >= totalMemory {
		return 0, fmt.Errorf("%w: $%04X", ErrAddressOutOfRange, addr)
	}
	return vm.memory[addr], nil
}

// ReadMemory returns a copy of n bytes starting at addr.
func (vm *C8VM) ReadMemory(addr uint16, n int) ([]byte, error) {
	if err := checkRange(addr, n); err != nil {
		return nil, err
	}
	data := make([]byte, n)
	copy(data, vm.memory[addr:])
	return data, nil
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// Display returns a snapshot of the pixels.
func (vm *C8VM) Display() Display {
	return vm.pixels
}

// IsDrawFlagSet returns whether the display changed since UnsetDrawFlag.
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// checkRange verifies that n bytes starting at addr lie inside memory.
func checkRange(addr uint16, n int) error {
	if n < 0 || int(addr)+n > totalMemory {
		return fmt.Errorf("%w: $%04X+%d", ErrAddressOutOfRange, addr, n)
	}
	return nil
}
