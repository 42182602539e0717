package clientpackets

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// ItemAction is a click on an item in an interface.
type ItemAction struct {
	// Option is 1-5 for the right-click options, 0 for the first action.
	Option    int
	Interface int
	Slot      int
	ItemID    int
}

func readItemFields(fields []protocol.ItemField, r *packet.Reader, a *ItemAction) error {
	for _, f := range fields {
		v, err := f.Field.Read(r)
		if err != nil {
			return err
		}
		switch f.Part {
		case protocol.PartInterface:
			a.Interface = v
		case protocol.PartSlot:
			a.Slot = v
		case protocol.PartItem:
			a.ItemID = v
		}
	}
	return nil
}

// ParseItemOption decodes a right-click item option (1-5).
func ParseItemOption(rev *protocol.Revision, data []byte, option int) (*ItemAction, error) {
	if option < 1 || option > len(rev.Layout.ItemOptions) {
		return nil, fmt.Errorf("item option %d: %w", option, ErrMalformed)
	}
	a := &ItemAction{Option: option}
	if err := readItemFields(rev.Layout.ItemOptions[option-1], packet.NewReader(data), a); err != nil {
		return nil, fmt.Errorf("reading item option %d: %w", option, err)
	}
	return a, nil
}

// ParseFirstItemAction decodes a left click on an item.
func ParseFirstItemAction(rev *protocol.Revision, data []byte) (*ItemAction, error) {
	a := &ItemAction{}
	if err := readItemFields(rev.Layout.FirstItemAction, packet.NewReader(data), a); err != nil {
		return nil, fmt.Errorf("reading first item action: %w", err)
	}
	return a, nil
}

// SwitchItem drags an item from one slot to another.
type SwitchItem struct {
	Interface int
	// Inserting shifts the items in between instead of swapping (bank).
	Inserting bool
	From      int
	To        int
}

// ParseSwitchItem decodes an item drag.
func ParseSwitchItem(rev *protocol.Revision, data []byte) (*SwitchItem, error) {
	l := &rev.Layout
	r := packet.NewReader(data)

	iface, err := l.SwitchInterface.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading interface: %w", err)
	}
	inserting, err := l.SwitchInserting.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading insert flag: %w", err)
	}
	from, err := l.SwitchFrom.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading source slot: %w", err)
	}
	to, err := l.SwitchTo.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading target slot: %w", err)
	}
	return &SwitchItem{Interface: iface, Inserting: inserting == 1, From: from, To: to}, nil
}
