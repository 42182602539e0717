package serverpackets

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Movement kinds in the two-bit field after the "has movement" flag.
const (
	moveStand     = 0
	moveWalk      = 1
	moveRun       = 2
	movePlacement = 3
)

// removalMarker follows the "has update" bit for a player leaving the local list.
const removalMarker = movePlacement

// PlayerSource lists the players that can be added to a local list.
type PlayerSource interface {
	Players() []*model.Player
}

// Synchronization is the per-tick update of one viewer: its own movement and
// state, then every player it tracks, then players that came into view.
//
// Building the message also updates the viewer's local list and evicts the
// viewer from the lists of players it drops. Nothing is changed when the
// build fails.
type Synchronization struct {
	Viewer *model.Player
	World  PlayerSource
	Defs   *model.EquipmentDefinitions
}

// NewSynchronization creates a synchronization for viewer.
func NewSynchronization(viewer *model.Player, world PlayerSource, defs *model.EquipmentDefinitions) *Synchronization {
	return &Synchronization{Viewer: viewer, World: world, Defs: defs}
}

type localUpdate struct {
	player *model.Player
	remove bool
	// evicted is set when the other side already dropped the viewer.
	evicted bool
	block   *protocol.Message
}

type localAddition struct {
	player *model.Player
	block  *protocol.Message
}

// Build writes the message.
func (s *Synchronization) Build(rev *protocol.Revision) (*protocol.Message, error) {
	viewer := s.Viewer
	layout := &rev.Layout

	self, err := StateBlock(rev, s.Defs, viewer, StateOptions{OmitChat: true})
	if err != nil {
		return nil, fmt.Errorf("state of %s: %w", viewer.Username(), err)
	}

	// Every block is built before the local lists are touched so that a
	// failure leaves both sides of every pair intact.
	var (
		updates  []localUpdate
		buildErr error
	)
	removed := make(map[int]struct{})
	kept := 0
	viewer.Local.Each(func(other *model.Player, evicted bool) {
		if buildErr != nil {
			return
		}
		if evicted || !viewer.Visible(other) {
			updates = append(updates, localUpdate{player: other, remove: true, evicted: evicted})
			removed[other.Index()] = struct{}{}
			return
		}
		block, err := StateBlock(rev, s.Defs, other, StateOptions{})
		if err != nil {
			buildErr = fmt.Errorf("state of %s for %s: %w", other.Username(), viewer.Username(), err)
			return
		}
		updates = append(updates, localUpdate{player: other, block: block})
		kept++
	})
	if buildErr != nil {
		return nil, buildErr
	}

	var additions []localAddition
	for _, other := range s.World.Players() {
		if kept+len(additions) >= constants.LocalListCapacity {
			break
		}
		if _, ok := removed[other.Index()]; ok {
			continue
		}
		if !viewer.Visible(other) || viewer.Local.Contains(other) {
			continue
		}
		block, err := StateBlock(rev, s.Defs, other, StateOptions{ForceAppearance: true})
		if err != nil {
			return nil, fmt.Errorf("state of %s for %s: %w", other.Username(), viewer.Username(), err)
		}
		additions = append(additions, localAddition{player: other, block: block})
	}

	m := protocol.NewMessage(rev.Out.Synchronization, protocol.VarShort)
	blocks := protocol.NewRaw()

	m.SwitchAccess(packet.BitAccess)
	writeSelfMovement(m.Writer, layout, viewer, self.Len() > 0)
	blocks.WriteBytes(self.Bytes())

	m.WriteBits(constants.LocalCountBits, viewer.Local.Len())
	for _, u := range updates {
		if u.remove {
			m.WriteBit(true)
			m.WriteBits(constants.MovementKindBits, removalMarker)
			continue
		}
		writeMovement(m.Writer, u.player.Movement, u.block.Len() > 0)
		blocks.WriteBytes(u.block.Bytes())
	}

	for _, a := range additions {
		writeAddition(m.Writer, layout, viewer, a.player)
		blocks.WriteBytes(a.block.Bytes())
	}

	m.WriteBits(constants.IndexBits, constants.LocalListTerminator)
	m.SwitchAccess(packet.ByteAccess)
	m.WriteBytes(blocks.Bytes())
	if err := m.Err(); err != nil {
		return nil, fmt.Errorf("synchronization for %s: %w", viewer.Username(), err)
	}

	for _, u := range updates {
		if u.remove && !u.evicted {
			u.player.Local.Evict(viewer)
		}
	}
	slot := 0
	viewer.Local.Sweep(func(*model.Player, bool) bool {
		keep := !updates[slot].remove
		slot++
		return keep
	})
	for _, a := range additions {
		if err := viewer.Local.Add(a.player); err != nil {
			return nil, fmt.Errorf("tracking %s for %s: %w", a.player.Username(), viewer.Username(), err)
		}
	}
	return m, nil
}

// writeSelfMovement writes the viewer's own movement. A teleport or a map
// reload is sent as an absolute placement.
func writeSelfMovement(w *packet.Writer, layout *protocol.Layout, viewer *model.Player, update bool) {
	if !viewer.SelfPlacement() {
		writeMovement(w, viewer.Movement, update)
		return
	}

	pos := viewer.Position()
	region := viewer.Region()
	w.WriteBit(true)
	for _, field := range layout.Placement {
		switch field {
		case protocol.BitMovementKind:
			w.WriteBits(constants.MovementKindBits, movePlacement)
		case protocol.BitPlane:
			w.WriteBits(constants.PlaneBits, pos.Plane)
		case protocol.BitRegionChanged:
			w.WriteBit(viewer.Teleporting() || viewer.RegionPending())
		case protocol.BitUpdate:
			w.WriteBit(update)
		case protocol.BitLocalX:
			w.WriteBits(constants.LocalCoordBits, pos.LocalX(region))
		case protocol.BitLocalY:
			w.WriteBits(constants.LocalCoordBits, pos.LocalY(region))
		}
	}
}

// writeMovement writes walk, run or standing state for a player.
func writeMovement(w *packet.Writer, mv model.Movement, update bool) {
	switch mv.Type {
	case model.MovementRun:
		w.WriteBit(true)
		w.WriteBits(constants.MovementKindBits, moveRun)
		w.WriteBits(constants.DirectionBits, int(mv.Primary))
		w.WriteBits(constants.DirectionBits, int(mv.Secondary))
		w.WriteBit(update)
	case model.MovementWalk:
		w.WriteBit(true)
		w.WriteBits(constants.MovementKindBits, moveWalk)
		w.WriteBits(constants.DirectionBits, int(mv.Primary))
		w.WriteBit(update)
	default:
		if !update {
			w.WriteBit(false)
			return
		}
		w.WriteBit(true)
		w.WriteBits(constants.MovementKindBits, moveStand)
	}
}

// writeAddition writes a new local list entry. New entries always carry a
// state block and discard any path the client had for that index.
func writeAddition(w *packet.Writer, layout *protocol.Layout, viewer, other *model.Player) {
	dx, dy := other.Position().Delta(viewer.Position())
	for _, field := range layout.AddEntity {
		switch field {
		case protocol.BitIndex:
			w.WriteBits(constants.IndexBits, other.Index())
		case protocol.BitUpdate:
			w.WriteBit(true)
		case protocol.BitDiscard:
			w.WriteBit(true)
		case protocol.BitDeltaX:
			w.WriteBits(constants.DeltaBits, dx&0x1F)
		case protocol.BitDeltaY:
			w.WriteBits(constants.DeltaBits, dy&0x1F)
		}
	}
}
