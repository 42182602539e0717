package packet

import "fmt"

// Width is the number of bytes a value occupies on the wire.
type Width int

const (
	Byte   Width = 1
	Short  Width = 2
	Medium Width = 3
	Int    Width = 4
	Long   Width = 8
)

// Order selects how the bytes of a multi-byte value are laid out.
type Order int

const (
	// Big writes the most significant byte first.
	Big Order = iota
	// Little writes the least significant byte first.
	Little
	// Middle writes 16-bit pairs from low to high, each pair big-endian.
	// For an int this is bytes 1,0,3,2.
	Middle
	// InverseMiddle writes 16-bit pairs from high to low, each pair little-endian.
	// For an int this is bytes 2,3,0,1.
	InverseMiddle
)

func (o Order) String() string {
	switch o {
	case Big:
		return "BIG"
	case Little:
		return "LITTLE"
	case Middle:
		return "MIDDLE"
	case InverseMiddle:
		return "INVERSE_MIDDLE"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// layouts caches the significance index of every wire position, per order and width.
var layouts = func() (l [4][Long + 1][]int) {
	for _, o := range []Order{Big, Little, Middle, InverseMiddle} {
		for _, w := range []Width{Byte, Short, Medium, Int, Long} {
			l[o][w] = buildLayout(o, int(w))
		}
	}
	return l
}()

// layout returns, for every wire position, which byte of the value goes there
// (0 is the least significant byte).
func layout(o Order, w Width) ([]int, error) {
	if o < Big || o > InverseMiddle {
		return nil, fmt.Errorf("unknown byte order %d", int(o))
	}
	switch w {
	case Byte, Short, Medium, Int, Long:
		return layouts[o][w], nil
	default:
		return nil, fmt.Errorf("unsupported width %d", int(w))
	}
}

func buildLayout(o Order, n int) []int {
	idx := make([]int, 0, n)
	pairs := (n + 1) / 2
	switch o {
	case Big:
		for i := n - 1; i >= 0; i-- {
			idx = append(idx, i)
		}
	case Little:
		for i := range n {
			idx = append(idx, i)
		}
	case Middle:
		for p := range pairs {
			if 2*p+1 < n {
				idx = append(idx, 2*p+1)
			}
			idx = append(idx, 2*p)
		}
	case InverseMiddle:
		for p := pairs - 1; p >= 0; p-- {
			idx = append(idx, 2*p)
			if 2*p+1 < n {
				idx = append(idx, 2*p+1)
			}
		}
	}
	return idx
}
