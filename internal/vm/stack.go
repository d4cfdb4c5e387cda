package vm

// callStack holds return addresses; sp is the number of entries in use.
type callStack struct {
	data [StackSize]uint16
	sp   int
}

func (s *callStack) push(addr uint16) error {
	if s.full() {
		return ErrStackOverflow
	}

	s.data[s.sp] = addr
	s.sp++
	return nil
}

func (s *callStack) pop() (uint16, error) {
	if s.empty() {
		return 0, ErrStackUnderflow
	}

	s.sp--
	return s.data[s.sp], nil
}

func (s *callStack) peek() (uint16, bool) {
	if s.empty() {
		return 0, false
	}
	return s.data[s.sp-1], true
}

func (s *callStack) depth() int {
	return s.sp
}

func (s *callStack) empty() bool {
	return s.sp == 0
}

func (s *callStack) full() bool {
	return s.sp == StackSize
}
