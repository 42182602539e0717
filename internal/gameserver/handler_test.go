package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/gameserver/clientpackets"
	"github.com/udisondev/rs2go/internal/login"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// chatPayload writes chat as the 317 client does: effects and color as
// 128-v, then the packed text reversed with +128 on every byte.
func chatPayload(color, effects int, text []byte) []byte {
	out := []byte{byte(128 - effects), byte(128 - color)}
	for i := len(text) - 1; i >= 0; i-- {
		out = append(out, text[i]+128)
	}
	return out
}

// walkPayload writes a 317 walk: x little endian with +128 on the low byte,
// the steps, y little endian, then the negated run flag.
func walkPayload(first model.Position, steps [][2]int, running bool) []byte {
	out := []byte{byte(first.X) + 128, byte(first.X >> 8)}
	for _, s := range steps {
		out = append(out, byte(s[0]), byte(s[1]))
	}
	out = append(out, byte(first.Y), byte(first.Y>>8))
	if running {
		return append(out, 0xFF)
	}
	return append(out, 0)
}

func itemPayload(fields []protocol.ItemField, iface, slot, id int) []byte {
	w := packet.NewWriter(6)
	for _, f := range fields {
		switch f.Part {
		case protocol.PartInterface:
			f.Field.Write(w, int64(iface))
		case protocol.PartSlot:
			f.Field.Write(w, int64(slot))
		case protocol.PartItem:
			f.Field.Write(w, int64(id))
		}
	}
	return w.Bytes()
}

func switchPayload(l *protocol.Layout, iface int, inserting bool, from, to int) []byte {
	w := packet.NewWriter(7)
	l.SwitchInterface.Write(w, int64(iface))
	ins := int64(0)
	if inserting {
		ins = 1
	}
	l.SwitchInserting.Write(w, ins)
	l.SwitchFrom.Write(w, int64(from))
	l.SwitchTo.Write(w, int64(to))
	return w.Bytes()
}

func buttonPayload(l *protocol.Layout, id int) []byte {
	w := packet.NewWriter(2)
	l.Button.Write(w, int64(id))
	return w.Bytes()
}

func (h *harness) wield(t *testing.T, c *GameClient, slot, id int) {
	t.Helper()
	payload := itemPayload(h.rev.Layout.ItemOptions[1], constants.InventoryInterface, slot, id)
	require.NoError(t, h.handle(t, c, protocol.InboundItemOption, 2, payload))
}

func TestHandler_ChatSetsFlag(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsModerator)

	text := []byte{0x12, 0x34, 0x56}
	require.NoError(t, h.handle(t, c, protocol.InboundChat, 0, chatPayload(3, 1, text)))
	assert.False(t, c.player.Flags.Has(model.FlagChat), "applied on the tick, not by the reader")

	h.tick(t)
	flags := h.flags["alice"]
	require.True(t, flags.Has(model.FlagChat))
	assert.Equal(t, model.ChatMessage{Color: 3, Effects: 1, Rights: model.RightsModerator, Text: text}, flags.Chat)
}

func TestHandler_MutedChat(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	c.player.Profile().Muted = true

	require.NoError(t, h.handle(t, c, protocol.InboundChat, 0, chatPayload(0, 0, []byte{1})))
	h.tick(t)

	assert.False(t, h.flags["alice"].Has(model.FlagChat))
	assert.Contains(t, texts(h.rev, drain(c)), "You are muted and cannot talk.")
}

func TestHandler_MalformedFrameIsRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)

	err := h.handle(t, c, protocol.InboundChat, 0, chatPayload(0, 0, nil))
	require.ErrorIs(t, err, clientpackets.ErrMalformed)
	assert.Zero(t, h.world.Pending(), "nothing scheduled")
}

func TestHandler_Walk(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	start := c.player.Position()

	payload := walkPayload(start, [][2]int{{3, 0}}, false)
	require.NoError(t, h.handle(t, c, protocol.InboundWalk, 0, payload))

	h.tick(t)
	assert.Equal(t, model.NewPosition(start.X+1, start.Y, 0), c.player.Position())
	assert.Equal(t, 2, c.player.Queue.Len())

	h.tick(t)
	h.tick(t)
	assert.Equal(t, model.NewPosition(start.X+3, start.Y, 0), c.player.Position())
}

func TestHandler_Equip(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Inventory.Set(4, model.Item{ID: 1277, Amount: 1}))
	h.tick(t)
	drain(c)

	h.wield(t, c, 4, 1277)
	h.tick(t)

	weapon, err := c.player.Equipment.Get(model.SlotWeapon)
	require.NoError(t, err)
	assert.Equal(t, model.Item{ID: 1277, Amount: 1}, weapon)
	slot, err := c.player.Inventory.Get(4)
	require.NoError(t, err)
	assert.True(t, slot.Empty())
	assert.True(t, h.flags["alice"].Has(model.FlagAppearance))

	slotted := 0
	for _, op := range opcodes(drain(c)) {
		if op == int(h.rev.Out.EquipmentSlot) {
			slotted++
		}
	}
	assert.Equal(t, 2, slotted, "only the changed inventory and equipment slots are resent")
}

func TestHandler_EquipSwapsWornItem(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Equipment.Set(model.SlotWeapon, model.Item{ID: 1277, Amount: 1}))
	require.NoError(t, c.player.Equipment.Set(model.SlotShield, model.Item{ID: 1173, Amount: 1}))
	require.NoError(t, c.player.Inventory.Set(0, model.Item{ID: 1307, Amount: 1}))

	h.wield(t, c, 0, 1307)
	h.tick(t)

	weapon, _ := c.player.Equipment.Get(model.SlotWeapon)
	assert.Equal(t, 1307, weapon.ID)
	shield, _ := c.player.Equipment.Get(model.SlotShield)
	assert.True(t, shield.Empty(), "two-handed weapon removes the shield")

	first, _ := c.player.Inventory.Get(0)
	assert.Equal(t, 1277, first.ID, "old weapon takes the clicked slot")
	assert.Equal(t, 1, c.player.Inventory.Amount(1173))
}

func TestHandler_EquipShieldRemovesTwoHanded(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Equipment.Set(model.SlotWeapon, model.Item{ID: 1307, Amount: 1}))
	require.NoError(t, c.player.Inventory.Set(2, model.Item{ID: 1173, Amount: 1}))

	h.wield(t, c, 2, 1173)
	h.tick(t)

	weapon, _ := c.player.Equipment.Get(model.SlotWeapon)
	assert.True(t, weapon.Empty())
	shield, _ := c.player.Equipment.Get(model.SlotShield)
	assert.Equal(t, 1173, shield.ID)
	back, _ := c.player.Inventory.Get(2)
	assert.Equal(t, 1307, back.ID)
}

func TestHandler_EquipWithoutSpace(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Equipment.Set(model.SlotWeapon, model.Item{ID: 1277, Amount: 1}))
	require.NoError(t, c.player.Equipment.Set(model.SlotShield, model.Item{ID: 1173, Amount: 1}))
	require.NoError(t, c.player.Inventory.Set(0, model.Item{ID: 1307, Amount: 1}))
	for slot := 1; slot < constants.InventorySize; slot++ {
		require.NoError(t, c.player.Inventory.Set(slot, model.Item{ID: 1153, Amount: 1}))
	}
	h.tick(t)
	drain(c)

	h.wield(t, c, 0, 1307)
	h.tick(t)

	weapon, _ := c.player.Equipment.Get(model.SlotWeapon)
	assert.Equal(t, 1277, weapon.ID, "nothing changes")
	first, _ := c.player.Inventory.Get(0)
	assert.Equal(t, 1307, first.ID)
	assert.Contains(t, texts(h.rev, drain(c)), "You don't have enough free inventory space to do that.")
}

func TestHandler_EquipStacksArrows(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Equipment.Set(model.SlotArrows, model.Item{ID: 882, Amount: 50}))
	require.NoError(t, c.player.Inventory.Set(0, model.Item{ID: 882, Amount: 25}))

	h.wield(t, c, 0, 882)
	h.tick(t)

	arrows, _ := c.player.Equipment.Get(model.SlotArrows)
	assert.Equal(t, model.Item{ID: 882, Amount: 75}, arrows)
	assert.Zero(t, c.player.Inventory.Amount(882))
}

func TestHandler_EquipRejectsUnwearable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Inventory.Set(0, model.Item{ID: 995, Amount: 100}))

	h.wield(t, c, 0, 995)
	h.wield(t, c, 1, 1277) // empty slot
	h.tick(t)

	assert.Equal(t, 100, c.player.Inventory.Amount(995))
	assert.Equal(t, []string{"You can't wear that."}, texts(h.rev, drain(c)))
}

func TestHandler_Unequip(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Equipment.Set(model.SlotHead, model.Item{ID: 1153, Amount: 1}))

	payload := itemPayload(h.rev.Layout.FirstItemAction, constants.EquipmentInterface, model.SlotHead, 1153)
	require.NoError(t, h.handle(t, c, protocol.InboundFirstItemAction, 0, payload))
	h.tick(t)

	head, _ := c.player.Equipment.Get(model.SlotHead)
	assert.True(t, head.Empty())
	assert.Equal(t, 1, c.player.Inventory.Amount(1153))
	assert.True(t, h.flags["alice"].Has(model.FlagAppearance))
}

func TestHandler_UnequipWrongItemIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Equipment.Set(model.SlotHead, model.Item{ID: 1153, Amount: 1}))

	payload := itemPayload(h.rev.Layout.FirstItemAction, constants.EquipmentInterface, model.SlotHead, 1115)
	require.NoError(t, h.handle(t, c, protocol.InboundFirstItemAction, 0, payload))
	h.tick(t)

	head, _ := c.player.Equipment.Get(model.SlotHead)
	assert.Equal(t, 1153, head.ID)
}

func TestHandler_SwitchItems(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Inventory.Set(0, model.Item{ID: 1277, Amount: 1}))
	require.NoError(t, c.player.Inventory.Set(5, model.Item{ID: 1153, Amount: 1}))

	payload := switchPayload(&h.rev.Layout, constants.InventoryInterface, false, 0, 5)
	require.NoError(t, h.handle(t, c, protocol.InboundSwitchItem, 0, payload))
	h.tick(t)

	a, _ := c.player.Inventory.Get(0)
	b, _ := c.player.Inventory.Get(5)
	assert.Equal(t, 1153, a.ID)
	assert.Equal(t, 1277, b.ID)
}

func TestHandler_LogoutButton(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)

	require.NoError(t, h.handle(t, c, protocol.InboundButton, 0, buttonPayload(&h.rev.Layout, constants.LogoutButton)))
	h.tick(t)

	assert.Zero(t, h.world.Online())
	assert.Nil(t, h.clients.Client(c.player))
	assert.Equal(t, login.StateLoggedOut, c.session.State())

	sent := drain(c)
	require.NotEmpty(t, sent)
	assert.Equal(t, []int{int(h.rev.Out.Close), -1}, opcodes(sent), "close message, then flush and close")
}

func TestHandler_OtherButtonIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)

	require.NoError(t, h.handle(t, c, protocol.InboundButton, 0, buttonPayload(&h.rev.Layout, 1234)))
	h.tick(t)
	assert.Equal(t, 1, h.world.Online())
}

func TestHandler_Design(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)

	design := []byte{model.GenderMale, 1, 11, 19, 27, 33, 37, 42, 1, 2, 3, 4, 0}
	require.NoError(t, h.handle(t, c, protocol.InboundDesign, 0, design))
	h.tick(t)

	want := model.Appearance{
		Gender: model.GenderMale,
		Look:   [model.LookSlots]int{1, 11, 19, 27, 33, 37, 42},
		Colors: [model.ColorSlots]int{1, 2, 3, 4, 0},
	}
	assert.Equal(t, want, c.player.Appearance)
	assert.True(t, h.flags["alice"].Has(model.FlagAppearance))
}

func TestHandler_InvalidDesign(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)

	design := []byte{model.GenderMale, 60, 11, 19, 27, 33, 37, 42, 1, 2, 3, 4, 0}
	require.Error(t, h.handle(t, c, protocol.InboundDesign, 0, design))
	h.tick(t)
	assert.Equal(t, model.DefaultAppearance(), c.player.Appearance)
}

func TestHandler_JobsSkipLoggedOutPlayer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := h.join(t, "alice", model.RightsPlayer)
	require.NoError(t, c.player.Inventory.Set(0, model.Item{ID: 1277, Amount: 1}))

	require.NoError(t, h.handle(t, c, protocol.InboundButton, 0, buttonPayload(&h.rev.Layout, constants.LogoutButton)))
	h.wield(t, c, 0, 1277)
	h.tick(t)

	weapon, _ := c.player.Equipment.Get(model.SlotWeapon)
	assert.True(t, weapon.Empty())
}
