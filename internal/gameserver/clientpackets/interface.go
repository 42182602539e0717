package clientpackets

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Button is a click on an interface button.
type Button struct {
	ID int
}

// ParseButton decodes a button click.
func ParseButton(rev *protocol.Revision, data []byte) (*Button, error) {
	id, err := rev.Layout.Button.Read(packet.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading button: %w", err)
	}
	return &Button{ID: id}, nil
}

// MouseClick is the packed click report the client sends periodically.
type MouseClick struct {
	Value int
}

// ParseMouseClick decodes a mouse click report.
func ParseMouseClick(rev *protocol.Revision, data []byte) (*MouseClick, error) {
	v, err := rev.Layout.MouseClick.Read(packet.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading mouse click: %w", err)
	}
	return &MouseClick{Value: v}, nil
}

// ParseDesign decodes a character design: gender, seven body parts and five colors.
// The result is not validated.
func ParseDesign(_ *protocol.Revision, data []byte) (*model.Appearance, error) {
	r := packet.NewReader(data)
	var a model.Appearance

	gender, err := r.ReadInt8(false, packet.Std)
	if err != nil {
		return nil, fmt.Errorf("reading gender: %w", err)
	}
	a.Gender = gender
	for i := range a.Look {
		if a.Look[i], err = r.ReadInt8(false, packet.Std); err != nil {
			return nil, fmt.Errorf("reading body part %d: %w", i, err)
		}
	}
	for i := range a.Colors {
		if a.Colors[i], err = r.ReadInt8(false, packet.Std); err != nil {
			return nil, fmt.Errorf("reading color %d: %w", i, err)
		}
	}
	return &a, nil
}
