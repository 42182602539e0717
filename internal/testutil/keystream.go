package testutil

// SequenceKeystream replays a fixed list of keystream values, then zeros.
type SequenceKeystream struct {
	Values []int32
	Calls  int
}

// NextValue returns the next scripted value.
func (s *SequenceKeystream) NextValue() int32 {
	s.Calls++
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[0]
	s.Values = s.Values[1:]
	return v
}

// ZeroKeystream leaves opcodes untouched and counts how often it was consumed.
type ZeroKeystream struct {
	Calls int
}

// NextValue always returns zero.
func (z *ZeroKeystream) NextValue() int32 {
	z.Calls++
	return 0
}
