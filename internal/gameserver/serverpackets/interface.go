package serverpackets

import (
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Sidebar tabs in client order.
const (
	TabAttack = iota
	TabSkills
	TabQuests
	TabInventory
	TabEquipment
	TabPrayer
	TabMagic
	TabUnused
	TabFriends
	TabIgnores
	TabLogout
	TabSettings
	TabEmotes
	TabMusic
	TabCount
)

// SidebarInterface places an interface in a sidebar tab.
type SidebarInterface struct {
	Tab       int
	Interface int
}

// Build writes the interface id and tab.
func (p SidebarInterface) Build(rev *protocol.Revision) (*protocol.Message, error) {
	m := protocol.NewMessage(rev.Out.Sidebar, protocol.Fixed)
	rev.Layout.SidebarInterface.Write(m.Writer, int64(p.Interface))
	rev.Layout.SidebarTab.Write(m.Writer, int64(p.Tab))
	return m, nil
}

// OpenInterface opens a main-screen interface.
type OpenInterface struct {
	Interface int
}

// Build writes the interface id.
func (p OpenInterface) Build(rev *protocol.Revision) (*protocol.Message, error) {
	m := protocol.NewMessage(rev.Out.Interface, protocol.Fixed)
	rev.Layout.InterfaceID.Write(m.Writer, int64(p.Interface))
	return m, nil
}

// Overlay shows a walkable interface over the game screen; -1 removes it.
type Overlay struct {
	Interface int
}

// Build writes the overlay id.
func (p Overlay) Build(rev *protocol.Revision) (*protocol.Message, error) {
	m := protocol.NewMessage(rev.Out.Overlay, protocol.Fixed)
	rev.Layout.OverlayID.Write(m.Writer, int64(p.Interface))
	return m, nil
}

// SystemText prints a line in the chat box.
type SystemText struct {
	Text string
}

// Build writes the text. Lines that do not fit a one-byte length fail.
func (p SystemText) Build(rev *protocol.Revision) (*protocol.Message, error) {
	m := protocol.NewMessage(rev.Out.SystemText, protocol.VarByte)
	m.WriteString(p.Text)
	return m, nil
}

// Skill sends one skill's current level and experience.
type Skill struct {
	ID         int
	Level      int
	Experience int
}

// Build writes the skill slot.
func (p Skill) Build(rev *protocol.Revision) (*protocol.Message, error) {
	m := protocol.NewMessage(rev.Out.Skill, protocol.Fixed)
	rev.Layout.SkillID.Write(m.Writer, int64(p.ID))
	rev.Layout.SkillExperience.Write(m.Writer, int64(p.Experience))
	rev.Layout.SkillLevel.Write(m.Writer, int64(p.Level))
	return m, nil
}

// the byte that announces a four-byte amount
const largeAmount = 255

func writeAmount(w *packet.Writer, small, large protocol.Field, amount int) {
	if amount >= largeAmount {
		small.Write(w, largeAmount)
		large.Write(w, int64(amount))
		return
	}
	small.Write(w, int64(amount))
}
