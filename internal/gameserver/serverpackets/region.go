package serverpackets

import (
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
)

// CenterRegion tells the client to load the map around a position.
type CenterRegion struct {
	Position model.Position
}

// NewCenterRegion creates a CenterRegion for the player's current map base.
func NewCenterRegion(pos model.Position) CenterRegion {
	return CenterRegion{Position: pos}
}

// Build writes the center chunk coordinates (top-left chunk plus six).
func (p CenterRegion) Build(rev *protocol.Revision) (*protocol.Message, error) {
	m := protocol.NewMessage(rev.Out.CenterRegion, protocol.Fixed)
	rev.Layout.RegionX.Write(m.Writer, int64(p.Position.RegionX()+6))
	rev.Layout.RegionY.Write(m.Writer, int64(p.Position.RegionY()+6))
	return m, nil
}
