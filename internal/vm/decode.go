package vm

// Instruction is an opcode split into its nibbles and derived operands.
//
//	C X Y D
//	  \_NNN
//	    \KK
type Instruction struct {
	Opcode uint16

	C uint8 // opcode family
	X uint8 // first register
	Y uint8 // second register
	D uint8 // family-specific discriminator

	NNN uint16 // address, low 12 bits
	KK  uint8  // immediate, low 8 bits
}

func Decode(opcode uint16) Instruction {
	return Instruction{
		Opcode: opcode,
		C:      uint8((opcode & 0xF000) >> 12),
		X:      uint8((opcode & 0x0F00) >> 8),
		Y:      uint8((opcode & 0x00F0) >> 4),
		D:      uint8(opcode & 0x000F),
		NNN:    opcode & 0x0FFF,
		KK:     uint8(opcode & 0x00FF),
	}
}
