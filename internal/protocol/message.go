package protocol

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/packet"
)

// Message is one outbound unit: a header plus the writer that fills its payload.
// Messages are built, compiled once and dropped.
type Message struct {
	*packet.Writer
	header Header
}

// NewMessage creates a message with the given opcode and framing.
func NewMessage(opcode byte, kind FrameKind) *Message {
	return &Message{
		Writer: packet.NewWriter(32),
		header: Header{Opcode: opcode, Kind: kind},
	}
}

// NewRaw creates a headerless sub-message that a parent appends to its own payload.
func NewRaw() *Message {
	return &Message{
		Writer: packet.NewWriter(16),
		header: Header{Kind: Raw},
	}
}

// Header returns the message header (opcode as built, not encoded).
func (m *Message) Header() Header {
	return m.header
}

// Compile validates the payload, encodes the opcode with the keystream and
// returns header and payload as one slice.
//
// The keystream is consumed only when compilation succeeds, so a rejected
// message does not desynchronize the stream. Raw messages never consume it.
func (m *Message) Compile(ks Keystream) ([]byte, error) {
	if err := m.Err(); err != nil {
		return nil, fmt.Errorf("compile opcode %d: %w", m.header.Opcode, err)
	}
	if m.Access() != packet.ByteAccess {
		return nil, fmt.Errorf("compile opcode %d: payload left in %s mode: %w", m.header.Opcode, m.Access(), packet.ErrAccessMode)
	}

	payload := m.Bytes()
	hdr, err := m.header.Compile(len(payload))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(hdr)+len(payload))
	out = append(out, hdr...)
	out = append(out, payload...)
	if m.header.Kind != Raw {
		out[0] = EncodeOpcode(out[0], ks)
	}
	return out, nil
}

// Append writes a compiled raw sub-message into the payload.
func (m *Message) Append(sub *Message) error {
	data, err := sub.Compile(nil)
	if err != nil {
		return err
	}
	m.WriteBytes(data)
	return nil
}
