// Package disasm converts CHIP-8 instruction words into assembly text.
// Instruction names come from the retrogolib CHIP-8 opcode table, operands
// are formatted as V registers, $-prefixed hex bytes and 12-bit addresses.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Unknown is returned for instruction words that match no opcode.
const Unknown = "??"

// Line is a single disassembled instruction of a listing.
type Line struct {
	Address uint16
	Data    []byte
	Code    string
}

// String formats the line as address, raw bytes and code.
func (l Line) String() string {
	switch len(l.Data) {
	case 2:
		return fmt.Sprintf("%04X  %02X %02X  %s", l.Address, l.Data[0], l.Data[1], l.Code)
	case 1:
		return fmt.Sprintf("%04X  %02X     %s", l.Address, l.Data[0], l.Code)
	default:
		return fmt.Sprintf("%04X         %s", l.Address, l.Code)
	}
}

// Lookup returns the opcode table entry matching the instruction word.
func Lookup(word uint16) (chip8.Opcode, bool) {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Instruction != nil && op.Info.Mask&word == op.Info.Value {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}

// Disassemble returns the assembly text for an instruction word.
func Disassemble(word uint16) string {
	op, ok := Lookup(word)
	if !ok {
		return Unknown
	}

	name := op.Instruction.Name
	if params := formatParams(name, word); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// Listing disassembles a program that is loaded at the base address. A
// trailing odd byte is emitted as data.
func Listing(program []byte, base uint16) []Line {
	lines := make([]Line, 0, len(program)/2+1)
	for offset := 0; offset < len(program); offset += 2 {
		address := base + uint16(offset)
		if offset+1 >= len(program) {
			lines = append(lines, Line{
				Address: address,
				Data:    program[offset : offset+1],
				Code:    fmt.Sprintf(".byte $%02X", program[offset]),
			})
			break
		}

		word := uint16(program[offset])<<8 | uint16(program[offset+1])
		lines = append(lines, Line{
			Address: address,
			Data:    program[offset : offset+2],
			Code:    Disassemble(word),
		})
	}
	return lines
}

func formatParams(name string, word uint16) string {
	x := (word & 0x0F00) >> 8
	y := (word & 0x00F0) >> 4

	switch name {
	case chip8.ClsName, chip8.RetName:
		return ""
	case chip8.JpName:
		if word&0xF000 == 0xB000 {
			return fmt.Sprintf("V0, $%03X", word&0x0FFF)
		}
		return fmt.Sprintf("$%03X", word&0x0FFF)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", word&0x0FFF)
	case chip8.SeName, chip8.SneName:
		if word&0xF000 == 0x3000 || word&0xF000 == 0x4000 {
			return fmt.Sprintf("V%X, $%02X", x, word&0x00FF)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case chip8.LdName:
		return formatLoad(word, x, y)
	case chip8.AddName:
		switch word & 0xF000 {
		case 0x7000:
			return fmt.Sprintf("V%X, $%02X", x, word&0x00FF)
		case 0x8000:
			return fmt.Sprintf("V%X, V%X", x, y)
		}
		return fmt.Sprintf("I, V%X", x)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", x, y)
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", x)
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", x, word&0x00FF)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, word&0x000F)
	}
	return ""
}

// formatLoad handles the many forms of the LD instruction.
func formatLoad(word, x, y uint16) string {
	switch word & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, word&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", word&0x0FFF)
	}

	switch word & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}
