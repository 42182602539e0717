package serverpackets

import (
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// UpdateItems replaces every slot of a container interface.
type UpdateItems struct {
	Interface int
	Items     []model.Item
}

// Build writes the slot count then amount and id+1 for every slot; empty
// slots are written as id 0.
func (p UpdateItems) Build(rev *protocol.Revision) (*protocol.Message, error) {
	l := &rev.Layout
	m := protocol.NewMessage(rev.Out.Inventory, protocol.VarShort)
	l.ContainerInterface.Write(m.Writer, int64(p.Interface))
	l.ContainerCount.Write(m.Writer, int64(len(p.Items)))
	for _, it := range p.Items {
		if it.Empty() {
			writeAmount(m.Writer, l.ContainerAmount, l.ContainerLargeAmount, 0)
			l.ContainerItem.Write(m.Writer, 0)
			continue
		}
		writeAmount(m.Writer, l.ContainerAmount, l.ContainerLargeAmount, it.Amount)
		l.ContainerItem.Write(m.Writer, int64(it.ID+1))
	}
	return m, nil
}

// SlottedItem is one changed slot of a container.
type SlottedItem struct {
	Slot int
	Item model.Item
}

// UpdateSlottedItems updates individual slots of a container interface.
type UpdateSlottedItems struct {
	Interface int
	Items     []SlottedItem
}

// NewUpdateSlottedItems collects the given slots of a container.
func NewUpdateSlottedItems(iface int, c *model.Container, slots []int) UpdateSlottedItems {
	p := UpdateSlottedItems{Interface: iface, Items: make([]SlottedItem, 0, len(slots))}
	for _, slot := range slots {
		it, err := c.Get(slot)
		if err != nil {
			continue
		}
		p.Items = append(p.Items, SlottedItem{Slot: slot, Item: it})
	}
	return p
}

// Build writes each slot as smart slot number, id+1 and amount.
func (p UpdateSlottedItems) Build(rev *protocol.Revision) (*protocol.Message, error) {
	m := protocol.NewMessage(rev.Out.EquipmentSlot, protocol.VarShort)
	rev.Layout.ContainerInterface.Write(m.Writer, int64(p.Interface))

	amount := protocol.ByteField(packet.Std)
	large := protocol.IntField(packet.Std, packet.Big)
	for _, s := range p.Items {
		m.WriteSmart(s.Slot)
		if s.Item.Empty() {
			m.WriteShort(0, packet.Std, packet.Big)
			writeAmount(m.Writer, amount, large, 0)
			continue
		}
		m.WriteShort(s.Item.ID+1, packet.Std, packet.Big)
		writeAmount(m.Writer, amount, large, s.Item.Amount)
	}
	return m, nil
}
