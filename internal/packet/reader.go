package packet

import (
	"errors"
	"fmt"
)

// StringTerminator ends every string on the wire.
const StringTerminator = 10

// ErrUnderflow is returned when a read runs past the end of the payload.
var ErrUnderflow = errors.New("packet: not enough data")

// Reader is the scratch buffer of one inbound payload.
// It only supports byte access: the protocol never reads bit-packed data.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new packet reader.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadValue reads a value of the given width. The mutation is reverted on the
// least significant byte; signed values are sign-extended from the width.
func (r *Reader) ReadValue(w Width, signed bool, m Mutation, o Order) (int64, error) {
	idx, err := layout(o, w)
	if err != nil {
		return 0, err
	}
	n := int(w)
	if r.pos+n > len(r.data) {
		return 0, fmt.Errorf("read %d bytes at pos=%d len=%d: %w", n, r.pos, len(r.data), ErrUnderflow)
	}

	var u uint64
	for i, sig := range idx {
		b := r.data[r.pos+i]
		if sig == 0 {
			b = m.revert(b)
		}
		u |= uint64(b) << (8 * sig)
	}
	r.pos += n

	if signed && w < Long {
		shift := 64 - 8*uint(n)
		return int64(u<<shift) >> shift, nil
	}
	return int64(u), nil
}

// ReadInt8 reads a single byte.
func (r *Reader) ReadInt8(signed bool, m Mutation) (int, error) {
	v, err := r.ReadValue(Byte, signed, m, Big)
	return int(v), err
}

// ReadShort reads a 2-byte value.
func (r *Reader) ReadShort(signed bool, m Mutation, o Order) (int, error) {
	v, err := r.ReadValue(Short, signed, m, o)
	return int(v), err
}

// ReadMedium reads a 3-byte value.
func (r *Reader) ReadMedium(signed bool, m Mutation, o Order) (int, error) {
	v, err := r.ReadValue(Medium, signed, m, o)
	return int(v), err
}

// ReadInt reads a 4-byte value.
func (r *Reader) ReadInt(signed bool, m Mutation, o Order) (int64, error) {
	return r.ReadValue(Int, signed, m, o)
}

// ReadLong reads an 8-byte value.
func (r *Reader) ReadLong(m Mutation, o Order) (int64, error) {
	return r.ReadValue(Long, true, m, o)
}

// ReadString reads bytes up to the terminator, which is consumed but not returned.
func (r *Reader) ReadString() (string, error) {
	for i := r.pos; i < len(r.data); i++ {
		if r.data[i] == StringTerminator {
			s := string(r.data[r.pos:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", fmt.Errorf("unterminated string at pos=%d: %w", r.pos, ErrUnderflow)
}

// ReadBytes reads n bytes (zero-copy: the slice shares the payload).
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("read %d bytes at pos=%d len=%d: %w", n, r.pos, len(r.data), ErrUnderflow)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBytesReverse reads n bytes stored back to front, reverting the mutation
// on each one. The returned slice is a copy in natural order.
func (r *Reader) ReadBytesReverse(n int, m Mutation) ([]byte, error) {
	raw, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	for i, b := range raw {
		out[n-1-i] = m.revert(b)
	}
	return out, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
