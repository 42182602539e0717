package protocol

import (
	"errors"
	"fmt"

	"github.com/udisondev/rs2go/internal/constants"
)

var (
	// ErrFrameTooLarge is returned when a payload does not fit its length prefix.
	ErrFrameTooLarge = errors.New("protocol: payload too large for frame kind")

	// ErrUnknownOpcode is returned for an inbound opcode the revision has no length for.
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
)

// Keystream produces the values added to outbound opcodes and subtracted
// from inbound ones. *crypto.ISAAC implements it.
type Keystream interface {
	NextValue() int32
}

// FrameKind selects how many length bytes follow the opcode.
type FrameKind int

const (
	// Fixed frames carry the opcode only; the length is known from the table.
	Fixed FrameKind = iota
	// VarByte frames carry the opcode and a one-byte length.
	VarByte
	// VarShort frames carry the opcode and a two-byte big-endian length.
	VarShort
	// Raw frames have no header at all and are embedded into another payload.
	Raw
)

func (k FrameKind) String() string {
	switch k {
	case Fixed:
		return "FIXED"
	case VarByte:
		return "VARIABLE_BYTE"
	case VarShort:
		return "VARIABLE_SHORT"
	case Raw:
		return "RAW"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(k))
	}
}

// LengthBytes returns the number of length bytes the kind puts after the opcode.
func (k FrameKind) LengthBytes() int {
	switch k {
	case VarByte:
		return 1
	case VarShort:
		return 2
	default:
		return 0
	}
}

// Length is what a revision table knows about an inbound opcode's payload size.
// The zero value is UnknownLength.
type Length struct {
	kind  lengthKind
	fixed int
}

type lengthKind uint8

const (
	lengthUnknown lengthKind = iota
	lengthFixed
	lengthVarByte
	lengthVarShort
)

var (
	// UnknownLength marks an opcode the revision does not define.
	UnknownLength = Length{}
	// VarByteLength means the next byte on the wire is the payload length.
	VarByteLength = Length{kind: lengthVarByte}
	// VarShortLength means the next two bytes on the wire are the payload length.
	VarShortLength = Length{kind: lengthVarShort}
)

// FixedLength is a payload size known in advance.
func FixedLength(n int) Length {
	return Length{kind: lengthFixed, fixed: n}
}

// Known reports whether the opcode is defined at all.
func (l Length) Known() bool {
	return l.kind != lengthUnknown
}

// Fixed returns the payload size and true for fixed-length opcodes.
func (l Length) Fixed() (int, bool) {
	return l.fixed, l.kind == lengthFixed
}

// Kind returns the frame kind that carries a payload of this length.
func (l Length) Kind() FrameKind {
	switch l.kind {
	case lengthVarByte:
		return VarByte
	case lengthVarShort:
		return VarShort
	default:
		return Fixed
	}
}

func (l Length) String() string {
	switch l.kind {
	case lengthFixed:
		return fmt.Sprintf("fixed(%d)", l.fixed)
	case lengthVarByte:
		return "var-byte"
	case lengthVarShort:
		return "var-short"
	default:
		return "unknown"
	}
}

// Header is the opcode and framing of one message.
type Header struct {
	Opcode byte
	Kind   FrameKind
}

// Compile returns the header bytes for a payload of the given length, with
// the opcode written as is. A VarByte payload longer than 255 bytes is an
// error rather than a silent switch to another framing.
func (h Header) Compile(payloadLen int) ([]byte, error) {
	if payloadLen < 0 {
		return nil, fmt.Errorf("compile %s header: negative payload length %d", h.Kind, payloadLen)
	}
	switch h.Kind {
	case Raw:
		return nil, nil
	case Fixed:
		return []byte{h.Opcode}, nil
	case VarByte:
		if payloadLen > constants.MaxVarBytePayload {
			return nil, fmt.Errorf("opcode %d: %d bytes: %w", h.Opcode, payloadLen, ErrFrameTooLarge)
		}
		return []byte{h.Opcode, byte(payloadLen)}, nil
	case VarShort:
		if payloadLen > constants.MaxFrameSize {
			return nil, fmt.Errorf("opcode %d: %d bytes: %w", h.Opcode, payloadLen, ErrFrameTooLarge)
		}
		return []byte{h.Opcode, byte(payloadLen >> 8), byte(payloadLen)}, nil
	default:
		return nil, fmt.Errorf("compile header: unknown frame kind %d", int(h.Kind))
	}
}

// EncodeOpcode adds the next keystream value to an opcode.
func EncodeOpcode(opcode byte, ks Keystream) byte {
	if ks == nil {
		return opcode
	}
	return byte(int32(opcode) + ks.NextValue())
}

// DecodeOpcode subtracts the next keystream value from a received opcode.
func DecodeOpcode(opcode byte, ks Keystream) byte {
	if ks == nil {
		return opcode
	}
	return byte(int32(opcode) - ks.NextValue())
}
