package testutil

// BitReader unpacks MSB-first bit fields independently of the packet writer.
type BitReader struct {
	data []byte
	pos  int
}

// NewBitReader creates a reader positioned at the first bit of data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// Read returns the next n bits as an unsigned value. Bits past the end read as zero.
func (r *BitReader) Read(n int) uint32 {
	var v uint32
	for range n {
		var bit uint32
		if idx := r.pos / 8; idx < len(r.data) {
			bit = uint32(r.data[idx]>>(7-uint(r.pos%8))) & 1
		}
		v = v<<1 | bit
		r.pos++
	}
	return v
}

// Flag reads a single bit.
func (r *BitReader) Flag() bool {
	return r.Read(1) == 1
}

// Position returns the bit cursor.
func (r *BitReader) Position() int {
	return r.pos
}

// ByteAligned returns the byte index of the first byte after the bits read so far.
func (r *BitReader) ByteAligned() int {
	return (r.pos + 7) / 8
}
