package clientpackets

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

func revisions(t *testing.T) []*protocol.Revision {
	t.Helper()
	var revs []*protocol.Revision
	for _, n := range []int{317, 377} {
		rev, err := protocol.Lookup(n)
		require.NoError(t, err)
		revs = append(revs, rev)
	}
	return revs
}

func encodeWalk(l *protocol.Layout, first model.Position, steps [][2]int, running bool, trailer int) []byte {
	w := packet.NewWriter(16)
	l.WalkFirstX.Write(w, int64(first.X))
	for _, s := range steps {
		w.WriteInt8(s[0], packet.Std)
		w.WriteInt8(s[1], packet.Std)
	}
	l.WalkFirstY.Write(w, int64(first.Y))
	run := int64(0)
	if running {
		run = 1
	}
	l.WalkRunning.Write(w, run)
	w.WriteBytes(make([]byte, trailer))
	return w.Bytes()
}

func TestParseWalk(t *testing.T) {
	t.Parallel()

	for _, rev := range revisions(t) {
		t.Run(strconv.Itoa(rev.Number), func(t *testing.T) {
			first := model.Position{X: 3222, Y: 3218}
			data := encodeWalk(&rev.Layout, first, [][2]int{{1, 0}, {2, -3}}, true, 0)

			walk, err := ParseWalk(rev, data, 0)
			require.NoError(t, err)
			assert.True(t, walk.Running)
			assert.Equal(t, []model.Position{
				{X: 3222, Y: 3218},
				{X: 3223, Y: 3218},
				{X: 3224, Y: 3215},
			}, walk.Path)
		})
	}
}

func TestParseWalk_SkipsTrailer(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]
	data := encodeWalk(&rev.Layout, model.Position{X: 3200, Y: 3200}, nil, false, 14)

	walk, err := ParseWalk(rev, data, 14)
	require.NoError(t, err)
	assert.False(t, walk.Running)
	assert.Equal(t, []model.Position{{X: 3200, Y: 3200}}, walk.Path)
}

func TestParseWalk_Malformed(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]
	tests := []struct {
		name    string
		data    []byte
		trailer int
	}{
		{"too short", []byte{1, 2, 3}, 0},
		{"odd step bytes", make([]byte, 6), 0},
		{"trailer longer than payload", make([]byte, 5), 6},
		{"too many steps", make([]byte, 5+2*model.MaxWaypoints), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWalk(rev, tt.data, tt.trailer)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseChat(t *testing.T) {
	t.Parallel()

	for _, rev := range revisions(t) {
		t.Run(strconv.Itoa(rev.Number), func(t *testing.T) {
			l := &rev.Layout
			text := []byte{0x11, 0x22, 0x33}

			w := packet.NewWriter(8)
			l.ChatEffects.Write(w, 2)
			l.ChatColor.Write(w, 5)
			w.WriteBytesReverse(text, l.ChatText)

			chat, err := ParseChat(rev, w.Bytes())
			require.NoError(t, err)
			assert.Equal(t, &Chat{Effects: 2, Color: 5, Text: text}, chat)
		})
	}
}

func TestParseChat_EmptyText(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]
	w := packet.NewWriter(2)
	rev.Layout.ChatEffects.Write(w, 0)
	rev.Layout.ChatColor.Write(w, 0)

	_, err := ParseChat(rev, w.Bytes())
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]

	cmd, err := ParseCommand(rev, []byte("Tele 3200 3200\n"))
	require.NoError(t, err)
	assert.Equal(t, "tele", cmd.Name)
	assert.Equal(t, []string{"3200", "3200"}, cmd.Args)

	_, err = ParseCommand(rev, []byte("  \n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseCommand(rev, []byte("pos"))
	require.Error(t, err, "missing terminator")
}

func TestParseItemOption(t *testing.T) {
	t.Parallel()

	for _, rev := range revisions(t) {
		for option := 1; option <= 5; option++ {
			w := packet.NewWriter(6)
			for _, f := range rev.Layout.ItemOptions[option-1] {
				switch f.Part {
				case protocol.PartInterface:
					f.Field.Write(w, 3214)
				case protocol.PartSlot:
					f.Field.Write(w, 7)
				case protocol.PartItem:
					f.Field.Write(w, 1277)
				}
			}

			a, err := ParseItemOption(rev, w.Bytes(), option)
			require.NoError(t, err, "revision %d option %d", rev.Number, option)
			assert.Equal(t, &ItemAction{Option: option, Interface: 3214, Slot: 7, ItemID: 1277}, a)
		}
	}
}

func TestParseItemOption_Errors(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]

	_, err := ParseItemOption(rev, make([]byte, 6), 6)
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseItemOption(rev, make([]byte, 3), 1)
	require.ErrorIs(t, err, packet.ErrUnderflow)
}

func TestParseFirstItemAction(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]
	w := packet.NewWriter(6)
	for _, f := range rev.Layout.FirstItemAction {
		switch f.Part {
		case protocol.PartInterface:
			f.Field.Write(w, 1688)
		case protocol.PartSlot:
			f.Field.Write(w, model.SlotWeapon)
		case protocol.PartItem:
			f.Field.Write(w, 1277)
		}
	}

	a, err := ParseFirstItemAction(rev, w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, &ItemAction{Interface: 1688, Slot: model.SlotWeapon, ItemID: 1277}, a)
}

func TestParseSwitchItem(t *testing.T) {
	t.Parallel()

	for _, rev := range revisions(t) {
		l := &rev.Layout
		w := packet.NewWriter(7)
		l.SwitchInterface.Write(w, 3214)
		l.SwitchInserting.Write(w, 1)
		l.SwitchFrom.Write(w, 3)
		l.SwitchTo.Write(w, 27)

		s, err := ParseSwitchItem(rev, w.Bytes())
		require.NoError(t, err)
		assert.Equal(t, &SwitchItem{Interface: 3214, Inserting: true, From: 3, To: 27}, s)
	}
}

func TestParseButtonAndMouseClick(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]

	b, err := ParseButton(rev, []byte{0x09, 0x9A})
	require.NoError(t, err)
	assert.Equal(t, 2458, b.ID)

	_, err = ParseButton(rev, []byte{1})
	require.ErrorIs(t, err, packet.ErrUnderflow)

	click, err := ParseMouseClick(rev, []byte{0x00, 0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, 0x010203, click.Value)
}

func TestParseDesign(t *testing.T) {
	t.Parallel()

	rev := revisions(t)[0]
	data := []byte{1, 45, 255, 57, 61, 67, 71, 79, 3, 16, 16, 0, 1}

	a, err := ParseDesign(rev, data)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Gender)
	assert.Equal(t, 45, a.Look[0])
	assert.Equal(t, 255, a.Look[1], "bytes are unsigned")
	assert.Equal(t, 1, a.Colors[4])

	_, err = ParseDesign(rev, data[:12])
	require.ErrorIs(t, err, packet.ErrUnderflow)
}
