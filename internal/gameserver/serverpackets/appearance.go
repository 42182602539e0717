package serverpackets

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Body part offsets the client adds to every id in the appearance block.
const (
	itemOffset = 0x200
	lookOffset = 0x100
)

// standAnimations are the idle, turn and walk animations sent with every
// appearance: stand, stand-turn, walk, turn-180, turn-90-cw, turn-90-ccw, run.
var standAnimations = [7]int{0x328, 0x337, 0x333, 0x334, 0x335, 0x336, 0x338}

// AppearanceBlock encodes how subject looks: worn items, body design, colors,
// animations, name and combat level. Every worn item must have a definition.
func AppearanceBlock(defs *model.EquipmentDefinitions, subject *model.Player) (*protocol.Message, error) {
	m := protocol.NewRaw()
	a := subject.Appearance

	worn := func(slot int) (model.Item, model.EquipmentDefinition, error) {
		it, err := subject.Equipment.Get(slot)
		if err != nil || it.Empty() {
			return model.Item{}, model.EquipmentDefinition{}, err
		}
		def, err := defs.Lookup(it.ID)
		if err != nil {
			return model.Item{}, model.EquipmentDefinition{}, fmt.Errorf("appearance of %s: %w", subject.Username(), err)
		}
		return it, def, nil
	}

	var (
		items [model.SlotArrows + 1]model.Item
		info  [model.SlotArrows + 1]model.EquipmentDefinition
	)
	for _, slot := range []int{model.SlotHead, model.SlotCape, model.SlotAmulet, model.SlotWeapon, model.SlotBody, model.SlotShield, model.SlotLegs, model.SlotHands, model.SlotFeet} {
		it, def, err := worn(slot)
		if err != nil {
			return nil, err
		}
		items[slot], info[slot] = it, def
	}

	itemOr := func(slot int, fallback func()) {
		if !items[slot].Empty() {
			m.WriteShort(itemOffset+items[slot].ID, packet.Std, packet.Big)
			return
		}
		fallback()
	}
	nothing := func() { m.WriteInt8(0, packet.Std) }
	look := func(part int) func() {
		return func() { m.WriteShort(lookOffset+a.Look[part], packet.Std, packet.Big) }
	}

	m.WriteInt8(a.Gender, packet.Std)
	m.WriteInt8(0, packet.Std) // head icon

	itemOr(model.SlotHead, nothing)
	itemOr(model.SlotCape, nothing)
	itemOr(model.SlotAmulet, nothing)
	itemOr(model.SlotWeapon, nothing)
	itemOr(model.SlotBody, look(model.LookTorso))
	itemOr(model.SlotShield, nothing)

	if info[model.SlotBody].FullBody {
		nothing()
	} else {
		look(model.LookArms)()
	}

	itemOr(model.SlotLegs, look(model.LookLegs))

	head := info[model.SlotHead]
	if head.FullHelm || head.FullMask {
		nothing()
	} else {
		look(model.LookHead)()
	}

	itemOr(model.SlotHands, look(model.LookHands))
	itemOr(model.SlotFeet, look(model.LookFeet))

	if a.Gender == model.GenderMale && !head.FullMask {
		look(model.LookBeard)()
	} else {
		nothing()
	}

	for _, c := range a.Colors {
		m.WriteInt8(c, packet.Std)
	}
	for _, anim := range standAnimations {
		m.WriteShort(anim, packet.Std, packet.Big)
	}

	m.WriteLong(int64(subject.Profile().NameHash()), packet.Std, packet.Big)
	m.WriteInt8(subject.CombatLevel(), packet.Std)
	m.WriteShort(0, packet.Std, packet.Big) // skill level, shown in minigame areas only

	return m, nil
}
