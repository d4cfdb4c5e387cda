package vm

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	MemorySize    = 4096
	StackSize     = 16
	RegisterCount = 16

	// FlagRegister is VF, overwritten by every carry-producing instruction.
	FlagRegister = 0xF

	InstructionSize = 2
)

type VM struct {
	memory    [MemorySize]uint8    // Memory (4k)
	registers [RegisterCount]uint8 // V registers (V0-VF)

	stack callStack

	pc uint16 // Program counter

	stepLimit uint64
	steps     uint64
}

// Option configures a VM at construction time.
type Option func(vm *VM)

// WithStepLimit makes Run fail with ErrStepLimit after n instructions.
// Zero means no limit.
func WithStepLimit(n uint64) Option {
	return func(vm *VM) {
		vm.stepLimit = n
	}
}

// New returns a machine with zeroed registers, memory and stack and the
// program counter at 0.
func New(opts ...Option) *VM {
	vm := &VM{}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Load copies data into memory starting at addr. Nothing is written if the
// data does not fit.
func (vm *VM) Load(addr uint16, data []byte) error {
	end := int(addr) + len(data)
	if end > MemorySize {
		return fmt.Errorf("%w: 0x%04x+%d", ErrLoadOutOfBounds, addr, len(data))
	}

	slog.Debug("load", "at", fmt.Sprintf("0x%04x", addr), "n", len(data))
	copy(vm.memory[addr:end], data)
	return nil
}

func (vm *VM) SetRegister(i int, value uint8) {
	checkRegister(i)
	vm.registers[i] = value
}

func (vm *VM) SetPC(pc uint16) {
	vm.pc = pc
}

func (vm *VM) Register(i int) uint8 {
	checkRegister(i)
	return vm.registers[i]
}

func (vm *VM) Registers() [RegisterCount]uint8 {
	return vm.registers
}

func (vm *VM) Peek(addr uint16) (uint8, error) {
	if int(addr) >= MemorySize {
		return 0, fmt.Errorf("%w: 0x%04x", ErrAddressOutOfBounds, addr)
	}
	return vm.memory[addr], nil
}

func (vm *VM) PC() uint16 {
	return vm.pc
}

func (vm *VM) StackDepth() int {
	return vm.stack.depth()
}

// StackTop returns the most recently pushed return address.
func (vm *VM) StackTop() (uint16, bool) {
	return vm.stack.peek()
}

// Steps reports how many instructions have been executed, HALT included.
func (vm *VM) Steps() uint64 {
	return vm.steps
}

func checkRegister(i int) {
	if i < 0 || i >= RegisterCount {
		panic(fmt.Sprintf("vm: register index %d out of range [0, %d)", i, RegisterCount))
	}
}

// Run executes instructions until HALT or a fatal error. The machine must
// not be run again after an error.
func (vm *VM) Run() error {
	for {
		halted, err := vm.Step()
		if err != nil {
			return err
		}

		if halted {
			slog.Debug("halt", "pc", fmt.Sprintf("0x%04x", vm.pc), "steps", vm.steps)
			return nil
		}
	}
}

// Step runs a single fetch-decode-execute cycle. The program counter is
// advanced past the fetched word before the instruction executes.
func (vm *VM) Step() (halted bool, err error) {
	if vm.stepLimit > 0 && vm.steps >= vm.stepLimit {
		return false, fmt.Errorf("%w: %d instructions at pc 0x%04x", ErrStepLimit, vm.steps, vm.pc)
	}

	at := vm.pc
	opcode, err := vm.fetchOpcode()
	if err != nil {
		return false, err
	}

	vm.pc += InstructionSize
	vm.steps++

	err = vm.executeOpcode(at, opcode)
	if errors.Is(err, errHalt) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("exec 0x%04x at pc 0x%04x: %w", opcode, at, err)
	}

	return false, nil
}

func (vm *VM) fetchOpcode() (uint16, error) {
	if int(vm.pc) > MemorySize-InstructionSize {
		return 0, fmt.Errorf("%w: 0x%04x", ErrPCOutOfBounds, vm.pc)
	}

	hi := vm.memory[vm.pc]
	lo := vm.memory[vm.pc+1]

	opcode := uint16(hi)<<8 | uint16(lo) // Op code is two bytes
	return opcode, nil
}
