package vm

import (
	"errors"
	"fmt"
)

var (
	ErrStackOverflow       = errors.New("stack overflow")
	ErrStackUnderflow      = errors.New("stack underflow")
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")

	ErrLoadOutOfBounds    = errors.New("load exceeds memory")
	ErrAddressOutOfBounds = errors.New("address out of range")
	ErrPCOutOfBounds      = errors.New("program counter out of range")
	ErrStepLimit          = errors.New("step limit exceeded")
)

// UnimplementedOpcodeError carries the raw word no handler matched.
type UnimplementedOpcodeError struct {
	Opcode uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%04X", e.Opcode)
}

func (e *UnimplementedOpcodeError) Is(err error) bool {
	return err == ErrUnimplementedOpcode
}
