package internal

import (
	"errors"
	"fmt"
)

// Errors returned by the VM. Errors are wrapped with context, use errors.Is
// to match them.
var (
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrProgramTooLarge   = errors.New("program size exceeds the maximum size")
	ErrInvalidRegister   = errors.New("invalid register index")
	ErrAddressOutOfRange = errors.New("address out of range")
)

// UnknownOpcodeError describes an instruction word that matches no
// instruction. Addr is the address the word was fetched from.
type UnknownOpcodeError struct {
	Word uint16
	Addr uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode: %04X at $%04X", e.Word, e.Addr)
}

// Is makes errors.Is(err, ErrUnknownOpcode) report true.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}
