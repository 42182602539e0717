package protocol

import (
	"fmt"
	"io"

	"github.com/udisondev/rs2go/internal/packet"
)

// Frame is one inbound message after opcode decoding.
type Frame struct {
	Opcode byte
	Kind   FrameKind
	*packet.Reader
	Payload []byte
}

// Size returns the payload size.
func (f *Frame) Size() int {
	return len(f.Payload)
}

// NewFrame wraps an already framed payload.
func NewFrame(opcode byte, kind FrameKind, payload []byte) *Frame {
	return &Frame{
		Opcode:  opcode,
		Kind:    kind,
		Reader:  packet.NewReader(payload),
		Payload: payload,
	}
}

// ReadFrame reads one frame from r. The opcode is decoded with ks and its
// payload length comes from the revision table: fixed-length opcodes carry no
// length bytes, variable ones are followed by a one or two byte length.
//
// An opcode the revision does not define yields ErrUnknownOpcode after only
// the opcode byte has been consumed. Any other error is a transport failure.
func ReadFrame(r io.Reader, ks Keystream, rev *Revision) (*Frame, error) {
	var op [1]byte
	if _, err := io.ReadFull(r, op[:]); err != nil {
		return nil, err
	}
	opcode := DecodeOpcode(op[0], ks)

	length := rev.Length(opcode)
	if !length.Known() {
		return nil, fmt.Errorf("revision %d opcode %d: %w", rev.Number, opcode, ErrUnknownOpcode)
	}

	kind := length.Kind()
	size, ok := length.Fixed()
	if !ok {
		var lb [2]byte
		n := kind.LengthBytes()
		if _, err := io.ReadFull(r, lb[:n]); err != nil {
			return nil, fmt.Errorf("reading length of opcode %d: %w", opcode, err)
		}
		if n == 1 {
			size = int(lb[0])
		} else {
			size = int(lb[0])<<8 | int(lb[1])
		}
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading %d byte payload of opcode %d: %w", size, opcode, err)
	}
	return NewFrame(opcode, kind, payload), nil
}
