package internal

import (
	"github.com/mnafees/chip8vm/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

// RunState is either Running or waiting for a key press to store in a
// register, see WaitingForKey.
type RunState uint8

// Running is the state in which the VM executes instructions.
const Running RunState = 0

const waitingBit = 0x10

// WaitingForKey returns the state in which the VM executes nothing until a
// key is pressed. The key index is then stored in Vx.
func WaitingForKey(x uint8) RunState {
	return RunState(waitingBit | x&0x0F)
}

// Register returns the register a pressed key will be stored in and
// whether the state is waiting for a key at all.
func (s RunState) Register() (uint8, bool) {
	if s&waitingBit == 0 {
		return 0, false
	}
	return uint8(s & 0x0F), true
}

// State returns the current run state.
func (vm *C8VM) State() RunState {
	return vm.state
}

// Cycle runs one logical tick: the timers are advanced and, unless the VM
// waits for a key, a single instruction is fetched, decoded and executed.
//
// The program counter is advanced before the instruction runs, so after a
// failed instruction it points past the faulting word. Continuing after an
// error is the caller's decision.
func (vm *C8VM) Cycle() error {
	vm.tickTimers()

	if _, waiting := vm.state.Register(); waiting {
		return nil
	}

	word, err := vm.fetch()
	if err != nil {
		return err
	}
	if vm.trace {
		vm.logger.Debug("Executing",
			log.Hex("address", vm.pc),
			log.Hex("opcode", word),
			log.String("instruction", disasm.Disassemble(word)))
	}

	vm.opcode = word
	vm.pc += opcodeSize
	return vm.execute(Decode(word))
}

// tickTimers counts a cycle and decrements DT and ST once every
// cyclesPerTimerTick cycles.
func (vm *C8VM) tickTimers() {
	vm.timerCycles++
	if vm.timerCycles < vm.cyclesPerTimerTick {
		return
	}
	vm.timerCycles = 0

	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// KeyDown marks a keypad key as pressed. A VM waiting for a key stores the
// key index and resumes. Indices above 0xF are ignored.
func (vm *C8VM) KeyDown(key uint8) {
	if key >= keyCount {
		return
	}
	vm.keys[key] = true

	if x, waiting := vm.state.Register(); waiting {
		vm.regV[x] = key
		vm.state = Running
		vm.logger.Debug("Key wait resolved",
			log.Uint8("register", x),
			log.Uint8("key", key))
	}
}

// KeyUp marks a keypad key as released. Releasing a key never resolves a
// pending key wait. Indices above 0xF are ignored.
func (vm *C8VM) KeyUp(key uint8) {
	if key >= keyCount {
		return
	}
	vm.keys[key] = false
}

// IsKeyPressed returns whether a keypad key is held down.
func (vm *C8VM) IsKeyPressed(key uint8) bool {
	if key >= keyCount {
		return false
	}
	return vm.keys[key]
}

// Waiting returns the register a key press will be stored in and whether
// the VM is halted waiting for one.
func (vm *C8VM) Waiting() (uint8, bool) {
	return vm.state.Register()
}

// Keys returns the pressed state of all keypad keys.
func (vm *C8VM) Keys() [keyCount]bool {
	return vm.keys
}
