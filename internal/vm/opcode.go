package vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	errHalt = errors.New("halt")
)

func (vm *VM) executeOpcode(at uint16, opcode uint16) error {
	in := Decode(opcode)
	instr := decode(in)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", at),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", instr.Name(in),
		)
	}

	return instr.Execute(vm, in)
}

// instruction is one dispatch table entry. Execute runs with the program
// counter already pointing at the next instruction.
type instruction struct {
	Name    func(in Instruction) string
	Execute func(vm *VM, in Instruction) error
}

func decode(in Instruction) instruction {
	switch in.C {
	case 0x0:
		switch in.Opcode {
		case 0x0000:
			// 0000 - Halt
			return haltInstruction

		case 0x00EE:
			// 00EE - Return from subroutine
			return rtsInstruction
		}

	case 0x2:
		// 2NNN - Calls subroutine at NNN
		return jsrInstruction

	case 0x8:
		// 8XY_
		switch in.D {
		case 0x4:
			// 8XY4 - Adds VY to VX. VF is set to 1 when there's a carry, and to 0 when there isn't.
			return add2Instruction
		}
	}

	return unknownInstruction
}

var (
	// 0000	halt	stop execution
	haltInstruction = instruction{
		Name: func(in Instruction) string {
			return "halt"
		},
		Execute: func(vm *VM, in Instruction) error {
			return errHalt
		},
	}

	// 00EE	rts	return from subroutine call
	rtsInstruction = instruction{
		Name: func(in Instruction) string {
			return "rts"
		},
		Execute: func(vm *VM, in Instruction) error {
			pc, err := vm.stack.pop()
			if err != nil {
				return err
			}
			vm.pc = pc
			return nil
		},
	}

	// 2xxx	jsr xxx	jump to subroutine at address xxx
	jsrInstruction = instruction{
		Name: func(in Instruction) string {
			return fmt.Sprintf("jsr 0x%04x", in.NNN)
		},
		Execute: func(vm *VM, in Instruction) error {
			if err := vm.stack.push(vm.pc); err != nil {
				return err
			}
			vm.pc = in.NNN
			return nil
		},
	}

	// 8ry4	add vr,vy	add register vy to vr,carry in vf
	add2Instruction = instruction{
		Name: func(in Instruction) string {
			return fmt.Sprintf("add v%x, v%x", in.X, in.Y)
		},
		Execute: func(vm *VM, in Instruction) error {
			x := vm.registers[in.X]
			y := vm.registers[in.Y]

			sum := uint16(x) + uint16(y)
			vm.registers[in.X] = uint8(sum)

			if sum > 0xFF {
				vm.registers[FlagRegister] = 1
			} else {
				vm.registers[FlagRegister] = 0
			}

			return nil
		},
	}

	unknownInstruction = instruction{
		Name: func(in Instruction) string {
			return fmt.Sprintf("unknown 0x%04X", in.Opcode)
		},
		Execute: func(vm *VM, in Instruction) error {
			return &UnimplementedOpcodeError{Opcode: in.Opcode}
		},
	}
)
