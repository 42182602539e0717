package gameserver

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/gameserver/serverpackets"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/world"
)

// Synchronizer sends every logged-in player its messages for the tick.
// Its methods run on the tick goroutine.
type Synchronizer struct {
	world   *world.World
	clients *ClientManager
	defs    *model.EquipmentDefinitions
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(w *world.World, clients *ClientManager, defs *model.EquipmentDefinitions) *Synchronizer {
	return &Synchronizer{world: w, clients: clients, defs: defs}
}

// Sync implements world.SyncFunc: the map region when it moved, the player
// synchronization, then changed item containers and skills.
func (s *Synchronizer) Sync(p *model.Player) error {
	c := s.clients.Client(p)
	if c == nil {
		return fmt.Errorf("no client for %s", p.Username())
	}
	if c.closed {
		// the reader goroutine will log the player out
		return nil
	}

	if p.RegionPending() {
		if err := c.Send(serverpackets.NewCenterRegion(p.Position())); err != nil {
			return err
		}
	}
	if err := c.Send(serverpackets.NewSynchronization(p, s.world, s.defs)); err != nil {
		return err
	}
	if err := sendContainer(c, constants.InventoryInterface, p.Inventory); err != nil {
		return err
	}
	if err := sendContainer(c, constants.EquipmentInterface, p.Equipment); err != nil {
		return err
	}
	for _, id := range p.Stats.Dirty() {
		sk := p.Stats.Skill(id)
		if err := c.Send(serverpackets.Skill{ID: id, Level: sk.Level, Experience: sk.Experience}); err != nil {
			return err
		}
	}
	return nil
}

func sendContainer(c *GameClient, iface int, items *model.Container) error {
	slots, all := items.Changed()
	switch {
	case all:
		return c.Send(serverpackets.UpdateItems{Interface: iface, Items: items.Items()})
	case len(slots) > 0:
		return c.Send(serverpackets.NewUpdateSlottedItems(iface, items, slots))
	}
	return nil
}

// Leave implements world.LeaveFunc: it ends the session of a removed player
// and closes the connection once the queued messages are written.
func (s *Synchronizer) Leave(p *model.Player) {
	c := s.clients.Client(p)
	if c == nil {
		return
	}
	s.clients.Unregister(p)
	c.session.End()
	c.CloseAfterFlush()
	slog.Info("player left the world", "user", p.Username(), "remote", c.ip)
}
