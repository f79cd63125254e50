package disasm

import (
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected string
	}{
		{"CLS", 0x00E0, chip8.ClsName},
		{"RET", 0x00EE, chip8.RetName},
		{"JP addr", 0x1234, chip8.JpName + " $234"},
		{"JP V0 addr", 0xB234, chip8.JpName + " V0, $234"},
		{"CALL", 0x2300, chip8.CallName + " $300"},
		{"SE byte", 0x3234, chip8.SeName + " V2, $34"},
		{"SNE byte", 0x4234, chip8.SneName + " V2, $34"},
		{"SE reg", 0x5230, chip8.SeName + " V2, V3"},
		{"SNE reg", 0x9230, chip8.SneName + " V2, V3"},
		{"LD byte", 0x6A12, chip8.LdName + " VA, $12"},
		{"LD reg", 0x8230, chip8.LdName + " V2, V3"},
		{"LD I", 0xA2F0, chip8.LdName + " I, $2F0"},
		{"ADD byte", 0x7234, chip8.AddName + " V2, $34"},
		{"ADD reg", 0x8234, chip8.AddName + " V2, V3"},
		{"OR", 0x8231, chip8.OrName + " V2, V3"},
		{"AND", 0x8232, chip8.AndName + " V2, V3"},
		{"XOR", 0x8233, chip8.XorName + " V2, V3"},
		{"SUB", 0x8235, chip8.SubName + " V2, V3"},
		{"SUBN", 0x8237, chip8.SubnName + " V2, V3"},
		{"SHR", 0x8236, chip8.ShrName + " V2"},
		{"SHL", 0x823E, chip8.ShlName + " V2"},
		{"RND", 0xC234, chip8.RndName + " V2, $34"},
		{"DRW", 0xD235, chip8.DrwName + " V2, V3, $5"},
		{"SKP", 0xE29E, chip8.SkpName + " V2"},
		{"SKNP", 0xE2A1, chip8.SknpName + " V2"},
		{"LD DT read", 0xF307, chip8.LdName + " V3, DT"},
		{"LD K", 0xF30A, chip8.LdName + " V3, K"},
		{"LD DT write", 0xF315, chip8.LdName + " DT, V3"},
		{"LD ST", 0xF318, chip8.LdName + " ST, V3"},
		{"ADD I", 0xF31E, chip8.AddName + " I, V3"},
		{"LD F", 0xF329, chip8.LdName + " F, V3"},
		{"LD B", 0xF333, chip8.LdName + " B, V3"},
		{"LD store", 0xF355, chip8.LdName + " [I], V3"},
		{"LD load", 0xF365, chip8.LdName + " V3, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Disassemble(tt.word))
		})
	}
}

func TestDisassembleUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Disassemble(0xE000))
	assert.Equal(t, Unknown, Disassemble(0xF0FF))

	_, ok := Lookup(0xE000)
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	op, ok := Lookup(0xD123)
	assert.True(t, ok)
	assert.Equal(t, chip8.DrwName, op.Instruction.Name)
}

func TestListing(t *testing.T) {
	program := []byte{0x00, 0xE0, 0x12, 0x00, 0xFF}

	lines := Listing(program, 0x200)
	assert.Len(t, lines, 3)

	assert.Equal(t, uint16(0x200), lines[0].Address)
	assert.Equal(t, []byte{0x00, 0xE0}, lines[0].Data)
	assert.Equal(t, chip8.ClsName, lines[0].Code)

	assert.Equal(t, uint16(0x202), lines[1].Address)
	assert.Equal(t, chip8.JpName+" $200", lines[1].Code)

	// trailing odd byte
	assert.Equal(t, uint16(0x204), lines[2].Address)
	assert.Equal(t, ".byte $FF", lines[2].Code)
}

func TestLineString(t *testing.T) {
	line := Line{Address: 0x202, Data: []byte{0x12, 0x00}, Code: chip8.JpName + " $200"}
	assert.Equal(t, "0202  12 00  "+chip8.JpName+" $200", line.String())

	line = Line{Address: 0x204, Data: []byte{0xFF}, Code: ".byte $FF"}
	assert.Equal(t, "0204  FF     .byte $FF", line.String())
}

func TestListingEmpty(t *testing.T) {
	assert.Empty(t, Listing(nil, 0x200))
}
