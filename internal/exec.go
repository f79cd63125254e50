package internal

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// execute runs a decoded instruction. The program counter already points to
// the next instruction when execute is called.
func (vm *C8VM) execute(ins Instruction) error {
	x, y := ins.X, ins.Y
	if x >= registerCount || y >= registerCount {
		return fmt.Errorf("%w: %04X", ErrInvalidRegister, ins.Word)
	}

	switch ins.Word & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch ins.Word {
		case 0x00E0: // CLS
			vm.pixels.Clear()
			vm.drawFlag = true
		case 0x00EE: // RET
			return vm.ret()
		default:
			return vm.unknownOpcode(ins.Word)
		}
	case 0x1000: // JP nnn
		vm.pc = ins.NNN
	case 0x2000: // CALL nnn
		return vm.call(ins.NNN)
	case 0x3000: // SE Vx, nn
		vm.skipIf(vm.regV[x] == ins.NN)
	case 0x4000: // SNE Vx, nn
		vm.skipIf(vm.regV[x] != ins.NN)
	case 0x5000:
		if ins.N != 0x0 {
			return vm.unknownOpcode(ins.Word)
		}
		vm.skipIf(vm.regV[x] == vm.regV[y]) // SE Vx, Vy
	case 0x6000: // LD Vx, nn
		vm.regV[x] = ins.NN
	case 0x7000: // ADD Vx, nn
		vm.regV[x] += ins.NN
	case 0x8000:
		return vm.arithmetic(ins)
	case 0x9000:
		if ins.N != 0x0 {
			return vm.unknownOpcode(ins.Word)
		}
		vm.skipIf(vm.regV[x] != vm.regV[y]) // SNE Vx, Vy
	case 0xA000: // LD I, nnn
		vm.regI = ins.NNN
	case 0xB000: // JP V0, nnn
		vm.pc = ins.NNN + uint16(vm.regV[0])
	case 0xC000: // RND Vx, nn
		vm.regV[x] = uint8(vm.rng.Intn(256)) & ins.NN
	case 0xD000: // DRW Vx, Vy, n
		return vm.draw(x, y, ins.N)
	case 0xE000:
		key := vm.regV[x] & 0x0F
		switch ins.NN {
		case 0x9E: // SKP Vx
			vm.skipIf(vm.keys[key])
		case 0xA1: // SKNP Vx
			vm.skipIf(!vm.keys[key])
		default:
			return vm.unknownOpcode(ins.Word)
		}
	case 0xF000:
		return vm.misc(ins)
	}
	return nil
}

// arithmetic runs the 8xyN register to register instructions. Results are
// stored in Vx before the flag is stored in VF, so the flag wins when x is F.
func (vm *C8VM) arithmetic(ins Instruction) error {
	x, y := ins.X, ins.Y
	vx, vy := vm.regV[x], vm.regV[y]

	switch ins.N {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vy
	case 0x1: // OR Vx, Vy
		vm.regV[x] = vx | vy
	case 0x2: // AND Vx, Vy
		vm.regV[x] = vx & vy
	case 0x3: // XOR Vx, Vy
		vm.regV[x] = vx ^ vy
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = flag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		vm.regV[x] = vx - vy
		vm.regV[0xF] = flag(vx >= vy)
	case 0x6: // SHR Vx {, Vy}
		vm.regV[x] = vx >> 1
		vm.regV[0xF] = vx & 0x01
	case 0x7: // SUBN Vx, Vy
		vm.regV[x] = vy - vx
		vm.regV[0xF] = flag(vy >= vx)
	case 0xE: // SHL Vx {, Vy}
		vm.regV[x] = vx << 1
		vm.regV[0xF] = vx >> 7
	default:
		return vm.unknownOpcode(ins.Word)
	}
	return nil
}

// misc runs the FxNN timer, key, index and memory block instructions.
func (vm *C8VM) misc(ins Instruction) error {
	x := ins.X

	switch ins.NN {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		vm.state = WaitingForKey(x)
		vm.logger.Debug("Waiting for key", log.Uint8("register", x))
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		sum := uint32(vm.regI) + uint32(vm.regV[x])
		if sum > 0xFFFF {
			sum = 0xFFFF
		}
		vm.regI = uint16(sum)
	case 0x29: // LD F, Vx
		vm.regI = uint16(vm.regV[x]&0x0F) * fontGlyphSize
	case 0x33: // LD B, Vx
		if err := checkRange(vm.regI, 3); err != nil {
			return err
		}
		v := vm.regV[x]
		vm.memory[vm.regI] = v / 100
		vm.memory[vm.regI+1] = (v / 10) % 10
		vm.memory[vm.regI+2] = v % 10
	case 0x55: // LD [I], Vx
		if err := checkRange(vm.regI, int(x)+1); err != nil {
			return err
		}
		copy(vm.memory[vm.regI:], vm.regV[:x+1])
	case 0x65: // LD Vx, [I]
		if err := checkRange(vm.regI, int(x)+1); err != nil {
			return err
		}
		copy(vm.regV[:x+1], vm.memory[vm.regI:])
	default:
		return vm.unknownOpcode(ins.Word)
	}
	return nil
}

func (vm *C8VM) call(addr uint16) error {
	if vm.sp >= stackDepth {
		return fmt.Errorf("%w: calling $%03X at depth %d", ErrStackOverflow, addr, vm.sp)
	}
	vm.stack[vm.sp] = vm.pc
	vm.sp++
	vm.pc = addr
	return nil
}

func (vm *C8VM) ret() error {
	if vm.sp == 0 {
		return fmt.Errorf("%w: return at $%04X", ErrStackUnderflow, vm.pc-opcodeSize)
	}
	vm.sp--
	vm.pc = vm.stack[vm.sp]
	return nil
}

func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc += opcodeSize
	}
}

// draw renders n bytes of sprite data from memory at I to Vx, Vy. VF is
// cleared first and set when a lit pixel is turned off.
func (vm *C8VM) draw(x, y, n uint8) error {
	if err := checkRange(vm.regI, int(n)); err != nil {
		return err
	}
	vx, vy := vm.regV[x], vm.regV[y]
	vm.regV[0xF] = 0
	sprite := vm.memory[vm.regI : vm.regI+uint16(n)]
	if vm.pixels.DrawSprite(vx, vy, sprite) {
		vm.regV[0xF] = 1
	}
	vm.drawFlag = true
	return nil
}

func (vm *C8VM) unknownOpcode(word uint16) error {
	return &UnknownOpcodeError{
		Word: word,
		Addr: vm.pc - opcodeSize,
	}
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
