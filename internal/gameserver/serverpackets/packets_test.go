package serverpackets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
)

func compile(t *testing.T, rev *protocol.Revision, p Packet) []byte {
	t.Helper()
	m, err := p.Build(rev)
	require.NoError(t, err)
	data, err := m.Compile(nil)
	require.NoError(t, err)
	return data
}

func TestSimplePackets317(t *testing.T) {
	t.Parallel()

	rev := rev317(t)

	tests := []struct {
		name string
		p    Packet
		want []byte
	}{
		{"center region", NewCenterRegion(model.DefaultSpawn), []byte{73, 0x01, 0x12, 0x01, 0x92}},
		{"logout", Logout{}, []byte{5}},
		{"skill", Skill{ID: model.SkillHitpoints, Level: 10, Experience: 1154}, []byte{134, 3, 0x04, 0x82, 0x00, 0x00, 10}},
		{"sidebar", SidebarInterface{Tab: TabInventory, Interface: 3213}, []byte{71, 0x0C, 0x8D, 0x83}},
		{"interface", OpenInterface{Interface: 5292}, []byte{97, 0x14, 0xAC}},
		{"close overlay", Overlay{Interface: -1}, []byte{208, 0xFF, 0xFF}},
		{"system text", SystemText{Text: "Hi"}, []byte{253, 3, 'H', 'i', 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compile(t, rev, tt.p))
		})
	}
}

func TestUpdateItems(t *testing.T) {
	t.Parallel()

	rev := rev317(t)
	p := UpdateItems{
		Interface: constants.InventoryInterface,
		Items:     []model.Item{{ID: 995, Amount: 100}, {}, {ID: 995, Amount: 1000}},
	}

	want := []byte{
		53, 0x00, 17,
		// interface 3214, slot count
		0x0C, 0x8E, 0x00, 0x03,
		// amount, then id 996 little-endian with Add
		100, 0x64, 0x03,
		// empty slot
		0, 0x80, 0x00,
		// large amount in inverse middle order
		255, 0x00, 0x00, 0xE8, 0x03, 0x64, 0x03,
	}
	assert.Equal(t, want, compile(t, rev, p))
}

func TestUpdateSlottedItems(t *testing.T) {
	t.Parallel()

	rev := rev317(t)
	c := model.NewContainer(constants.EquipmentSize, model.StackDefinitions, testDefs())
	require.NoError(t, c.Set(model.SlotWeapon, model.Item{ID: 1277, Amount: 1}))

	p := NewUpdateSlottedItems(constants.EquipmentInterface, c, []int{model.SlotWeapon, model.SlotShield, 99})
	require.Len(t, p.Items, 2, "invalid slots are skipped")

	want := []byte{
		34, 0x00, 10,
		0x06, 0x98, // interface 1688
		// weapon: smart slot, id+1, amount
		3, 0x04, 0xFE, 1,
		// shield emptied
		5, 0x00, 0x00, 0,
	}
	assert.Equal(t, want, compile(t, rev, p))
}

func TestSystemTextTooLong(t *testing.T) {
	t.Parallel()

	rev := rev317(t)
	m, err := SystemText{Text: strings.Repeat("x", 300)}.Build(rev)
	require.NoError(t, err)

	_, err = m.Compile(nil)
	require.ErrorIs(t, err, protocol.ErrFrameTooLarge)
}

func TestPackets377UseOwnOpcodes(t *testing.T) {
	t.Parallel()

	rev, err := protocol.Lookup(377)
	require.NoError(t, err)

	assert.Equal(t, byte(222), compile(t, rev, NewCenterRegion(model.DefaultSpawn))[0])
	assert.Equal(t, byte(63), compile(t, rev, SystemText{Text: "x"})[0])
}
