package packet

import (
	"errors"
	"fmt"
)

// ErrAccessMode is recorded when byte and bit access are mixed without SwitchAccess.
var ErrAccessMode = errors.New("packet: wrong access mode")

// Access is the cursor model a Writer is currently in.
type Access int

const (
	ByteAccess Access = iota
	BitAccess
)

func (a Access) String() string {
	if a == BitAccess {
		return "BIT"
	}
	return "BYTE"
}

// Writer accumulates one outbound payload.
//
// In ByteAccess mode values are appended at the end. In BitAccess mode
// WriteBits packs fields MSB-first starting at the bit cursor; switching back
// to ByteAccess pads the last partial byte. The first failure is kept and
// every later write is ignored (see Err).
type Writer struct {
	buf    []byte
	bitPos int
	access Access
	err    error
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Err returns the first error recorded by the writer.
func (w *Writer) Err() error {
	return w.err
}

// Access returns the current access mode.
func (w *Writer) Access() Access {
	return w.access
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) byteMode(op string) bool {
	if w.err != nil {
		return false
	}
	if w.access != ByteAccess {
		w.fail(fmt.Errorf("%s in %s mode: %w", op, w.access, ErrAccessMode))
		return false
	}
	return true
}

// SwitchAccess moves the cursor between byte and bit access.
func (w *Writer) SwitchAccess(a Access) {
	if w.err != nil || a == w.access {
		return
	}
	switch a {
	case BitAccess:
		w.bitPos = len(w.buf) * 8
	case ByteAccess:
		w.buf = w.buf[:(w.bitPos+7)/8]
	default:
		w.fail(fmt.Errorf("switch to unknown access %d: %w", int(a), ErrAccessMode))
		return
	}
	w.access = a
}

// WriteValue writes the low bytes of v in the given order, applying the
// mutation to the least significant byte.
func (w *Writer) WriteValue(width Width, v int64, m Mutation, o Order) {
	if !w.byteMode("WriteValue") {
		return
	}
	idx, err := layout(o, width)
	if err != nil {
		w.fail(err)
		return
	}
	for _, sig := range idx {
		if sig == 0 {
			w.buf = append(w.buf, m.apply(v))
			continue
		}
		w.buf = append(w.buf, byte(uint64(v)>>(8*sig)))
	}
}

// WriteByte appends a single byte (io.ByteWriter). It returns the writer's
// error, so a byte written in bit mode or after a failure reports it.
func (w *Writer) WriteByte(b byte) error {
	w.WriteValue(Byte, int64(b), Std, Big)
	return w.err
}

// WriteInt8 writes one byte.
func (w *Writer) WriteInt8(v int, m Mutation) {
	w.WriteValue(Byte, int64(v), m, Big)
}

// WriteShort writes a 2-byte value.
func (w *Writer) WriteShort(v int, m Mutation, o Order) {
	w.WriteValue(Short, int64(v), m, o)
}

// WriteMedium writes a 3-byte value.
func (w *Writer) WriteMedium(v int, m Mutation, o Order) {
	w.WriteValue(Medium, int64(v), m, o)
}

// WriteInt writes a 4-byte value.
func (w *Writer) WriteInt(v int64, m Mutation, o Order) {
	w.WriteValue(Int, v, m, o)
}

// WriteLong writes an 8-byte value.
func (w *Writer) WriteLong(v int64, m Mutation, o Order) {
	w.WriteValue(Long, v, m, o)
}

// WriteSmart writes values below 128 as one byte and anything else
// as a big-endian short with the top bit set.
func (w *Writer) WriteSmart(v int) {
	if v < 0 || v > 0x7FFF {
		w.fail(fmt.Errorf("smart value %d out of range", v))
		return
	}
	if v < 128 {
		w.WriteInt8(v, Std)
		return
	}
	w.WriteShort(v|0x8000, Std, Big)
}

// WriteString writes the text followed by the terminator byte.
func (w *Writer) WriteString(s string) {
	if !w.byteMode("WriteString") {
		return
	}
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, StringTerminator)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	if !w.byteMode("WriteBytes") {
		return
	}
	w.buf = append(w.buf, data...)
}

// WriteBytesReverse writes data back to front, applying the mutation to each byte.
func (w *Writer) WriteBytesReverse(data []byte, m Mutation) {
	if !w.byteMode("WriteBytesReverse") {
		return
	}
	for i := len(data) - 1; i >= 0; i-- {
		w.buf = append(w.buf, m.apply(int64(data[i])))
	}
}

// WriteBits packs the low n bits of v (1 <= n <= 32) at the bit cursor.
func (w *Writer) WriteBits(n int, v int) {
	if w.err != nil {
		return
	}
	if w.access != BitAccess {
		w.fail(fmt.Errorf("WriteBits in %s mode: %w", w.access, ErrAccessMode))
		return
	}
	if n < 1 || n > 32 {
		w.fail(fmt.Errorf("WriteBits: bit count %d out of range", n))
		return
	}

	value := uint32(v)
	bytePos := w.bitPos >> 3
	offset := 8 - (w.bitPos & 7)
	w.bitPos += n

	if need := (w.bitPos + 7) / 8; need > len(w.buf) {
		w.buf = append(w.buf, make([]byte, need-len(w.buf))...)
	}

	for ; n > offset; offset = 8 {
		mask := bitMask(offset)
		w.buf[bytePos] &^= byte(mask)
		w.buf[bytePos] |= byte((value >> (n - offset)) & mask)
		bytePos++
		n -= offset
	}
	mask := bitMask(n)
	shift := offset - n
	w.buf[bytePos] &^= byte(mask << shift)
	w.buf[bytePos] |= byte((value & mask) << shift)
}

// WriteBit writes a single flag bit.
func (w *Writer) WriteBit(flag bool) {
	if flag {
		w.WriteBits(1, 1)
		return
	}
	w.WriteBits(1, 0)
}

// Bytes returns the accumulated payload. In bit mode the last byte may be partial.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current payload length in bytes.
func (w *Writer) Len() int {
	return len(w.buf)
}

// BitPosition returns the bit cursor (valid in bit mode only).
func (w *Writer) BitPosition() int {
	return w.bitPos
}

func bitMask(n int) uint32 {
	return uint32((uint64(1) << uint(n)) - 1)
}
