// Package scenario holds canned machine setups used by the command line
// harness and by tests.
package scenario

import (
	"fmt"
	"slices"

	"github.com/kapitanov/chip8cpu/internal/vm"
)

// Segment is a block of bytes loaded at At.
type Segment struct {
	At   uint16
	Data []byte
}

type Scenario struct {
	Name        string
	Description string

	Registers map[int]uint8
	Segments  []Segment
	Entry     uint16

	// Expect is the value register 0 holds after a successful run.
	Expect uint8
}

// Setup writes the scenario into m.
func (s Scenario) Setup(m *vm.VM) error {
	for i, v := range s.Registers {
		m.SetRegister(i, v)
	}

	for _, seg := range s.Segments {
		if err := m.Load(seg.At, seg.Data); err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}

	m.SetPC(s.Entry)
	return nil
}

var all = []Scenario{
	{
		Name:        "double-add",
		Description: "call a subroutine adding v1 to v0 twice, two times",
		Registers:   map[int]uint8{0: 5, 1: 10},
		Segments: []Segment{
			{At: 0x000, Data: []byte{
				0x21, 0x00, // jsr 0x100
				0x21, 0x00, // jsr 0x100
				0x00, 0x00, // halt
			}},
			{At: 0x100, Data: []byte{
				0x80, 0x14, // add v0, v1
				0x80, 0x14, // add v0, v1
				0x00, 0xEE, // rts
			}},
		},
		Expect: 45,
	},
	{
		Name:        "inline-add",
		Description: "add v1, v2 and v3 into v0 without calls",
		Registers:   map[int]uint8{0: 5, 1: 10, 2: 10, 3: 10},
		Segments: []Segment{
			{At: 0x000, Data: []byte{
				0x80, 0x14, // add v0, v1
				0x80, 0x24, // add v0, v2
				0x80, 0x34, // add v0, v3
				0x00, 0x00, // halt
			}},
		},
		Expect: 35,
	},
}

func All() []Scenario {
	return slices.Clone(all)
}

func Lookup(name string) (Scenario, bool) {
	for _, s := range all {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

func Names() []string {
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	return names
}
