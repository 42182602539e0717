package packet

import "fmt"

// Mutation is a reversible transform applied to the least significant byte
// of a value. Which mutation a field uses is fixed by the client and has to
// match on both ends: a mismatch decodes to a wrong number without any error.
type Mutation int

const (
	Std  Mutation = iota // identity
	Add                  // v + 128
	Sub                  // v - 128 (same byte as Add; the read-side spelling)
	Neg                  // -v
	Rsub                 // 128 - v
)

func (m Mutation) String() string {
	switch m {
	case Std:
		return "STD"
	case Add:
		return "ADD"
	case Sub:
		return "SUB"
	case Neg:
		return "NEG"
	case Rsub:
		return "RSUB"
	default:
		return fmt.Sprintf("Mutation(%d)", int(m))
	}
}

// apply transforms a value before its low byte is written.
func (m Mutation) apply(v int64) byte {
	switch m {
	case Add:
		v += 128
	case Sub:
		v -= 128
	case Neg:
		v = -v
	case Rsub:
		v = 128 - v
	}
	return byte(v)
}

// revert undoes apply on a byte read from the wire.
func (m Mutation) revert(b byte) byte {
	v := int(b)
	switch m {
	case Add:
		v -= 128
	case Sub:
		v += 128
	case Neg:
		v = -v
	case Rsub:
		v = 128 - v
	}
	return byte(v)
}
