package internal

import "fmt"

// Instruction holds the operand fields of a 16-bit instruction word. Every
// word decodes, whether the combination is a valid instruction is decided
// when it is executed.
type Instruction struct {
	Word   uint16 // the raw instruction word
	Family uint8  // the upper 4 bits of the instruction
	X      uint8  // the lower 4 bits of the high byte of the instruction
	Y      uint8  // the upper 4 bits of the low byte of the instruction
	N      uint8  // the lowest 4 bits of the instruction
	NN     uint8  // the lowest 8 bits of the instruction
	NNN    uint16 // the lowest 12 bits of the instruction
}

// Decode splits an instruction word into its operand fields.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:   word,
		Family: uint8(word >> 12),
		X:      uint8((word >> 8) & 0x000F),
		Y:      uint8((word >> 4) & 0x000F),
		N:      uint8(word & 0x000F),
		NN:     uint8(word & 0x00FF),
		NNN:    word & 0x0FFF,
	}
}

// fetch reads the big-endian instruction word at the program counter.
func (vm *C8VM) fetch() (uint16, error) {
	if err := checkRange(vm.pc, opcodeSize); err != nil {
		return 0, fmt.Errorf("fetching instruction: %w", err)
	}
	return uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1]), nil
}
