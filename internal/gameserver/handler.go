package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/gameserver/clientpackets"
	"github.com/udisondev/rs2go/internal/gameserver/serverpackets"
	"github.com/udisondev/rs2go/internal/login"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
	"github.com/udisondev/rs2go/internal/world"
)

// ErrNoHandler is returned for an opcode whose message kind has no handler.
var ErrNoHandler = errors.New("no handler")

// Handler processes game client messages.
//
// Handle runs on the connection's reader goroutine: it decodes the frame
// there and schedules the effect as a world job, so players are only
// touched by the tick goroutine.
type Handler struct {
	world    *world.World
	clients  *ClientManager
	defs     *model.EquipmentDefinitions
	profiles login.ProfileRepository
	metrics  *Metrics
}

// NewHandler creates a new message handler for game clients.
func NewHandler(w *world.World, clients *ClientManager, defs *model.EquipmentDefinitions, profiles login.ProfileRepository, metrics *Metrics) *Handler {
	return &Handler{
		world:    w,
		clients:  clients,
		defs:     defs,
		profiles: profiles,
		metrics:  metrics,
	}
}

// Handle dispatches one inbound frame. A returned error means the frame was
// dropped; the connection stays usable.
func (h *Handler) Handle(ctx context.Context, c *GameClient, f *protocol.Frame) error {
	rev := c.Revision()
	route := rev.Route(f.Opcode)
	h.metrics.frame(route.Inbound.String())

	switch route.Inbound {
	case protocol.InboundIgnored, protocol.InboundKeepAlive:
		return nil

	case protocol.InboundChat:
		return h.handleChat(c, rev, f.Payload)

	case protocol.InboundCommand:
		return h.handleCommand(ctx, c, rev, f.Payload)

	case protocol.InboundWalk:
		return h.handleWalk(c, rev, f.Payload, route.Trailer)

	case protocol.InboundItemOption:
		return h.handleItemOption(c, rev, f.Payload, route.Option)

	case protocol.InboundFirstItemAction:
		return h.handleFirstItemAction(c, rev, f.Payload)

	case protocol.InboundSwitchItem:
		return h.handleSwitchItem(c, rev, f.Payload)

	case protocol.InboundButton:
		return h.handleButton(c, rev, f.Payload)

	case protocol.InboundMouseClick:
		click, err := clientpackets.ParseMouseClick(rev, f.Payload)
		if err != nil {
			return err
		}
		slog.Debug("mouse click", "user", c.player.Username(), "value", click.Value)
		return nil

	case protocol.InboundDesign:
		return h.handleDesign(c, rev, f.Payload)

	default:
		return fmt.Errorf("opcode %d (%s): %w", f.Opcode, route.Inbound, ErrNoHandler)
	}
}

// submit schedules fn for the client's player. Jobs for a player that has
// already left are skipped.
func (h *Handler) submit(c *GameClient, fn func(p *model.Player)) {
	h.world.Submit(func(*world.World) {
		if c.player.LoggedOut() {
			return
		}
		fn(c.player)
	})
}

// tell schedules a chat box line for the client.
func (h *Handler) tell(c *GameClient, text string) {
	h.world.Submit(func(*world.World) {
		send(c, serverpackets.SystemText{Text: text})
	})
}

// send queues p from the tick goroutine. Failures only matter to the
// client that is going away, so they are logged and dropped.
func send(c *GameClient, p serverpackets.Packet) {
	if err := c.Send(p); err != nil {
		slog.Debug("send failed", "client", c.ip, "packet", fmt.Sprintf("%T", p), "error", err)
	}
}

func (h *Handler) handleChat(c *GameClient, rev *protocol.Revision, data []byte) error {
	chat, err := clientpackets.ParseChat(rev, data)
	if err != nil {
		return err
	}
	h.submit(c, func(p *model.Player) {
		if p.Profile().Muted {
			send(c, serverpackets.SystemText{Text: "You are muted and cannot talk."})
			return
		}
		p.Flags.SetChat(model.ChatMessage{
			Color:   chat.Color,
			Effects: chat.Effects,
			Rights:  p.Rights(),
			Text:    chat.Text,
		})
	})
	return nil
}

func (h *Handler) handleWalk(c *GameClient, rev *protocol.Revision, data []byte, trailer int) error {
	walk, err := clientpackets.ParseWalk(rev, data, trailer)
	if err != nil {
		return err
	}
	h.submit(c, func(p *model.Player) {
		p.Queue.Walk(p.Position(), walk.Path, walk.Running)
	})
	return nil
}

func (h *Handler) handleItemOption(c *GameClient, rev *protocol.Revision, data []byte, option int) error {
	action, err := clientpackets.ParseItemOption(rev, data, option)
	if err != nil {
		return err
	}
	// Второй пункт меню предмета в инвентаре - "Wield"/"Wear".
	if option != 2 || action.Interface != constants.InventoryInterface {
		slog.Debug("item option ignored", "user", c.player.Username(), "option", option,
			"interface", action.Interface, "slot", action.Slot, "item", action.ItemID)
		return nil
	}
	h.submit(c, func(p *model.Player) {
		h.equip(c, p, action)
	})
	return nil
}

func (h *Handler) handleFirstItemAction(c *GameClient, rev *protocol.Revision, data []byte) error {
	action, err := clientpackets.ParseFirstItemAction(rev, data)
	if err != nil {
		return err
	}
	if action.Interface != constants.EquipmentInterface {
		slog.Debug("item action ignored", "user", c.player.Username(),
			"interface", action.Interface, "slot", action.Slot, "item", action.ItemID)
		return nil
	}
	h.submit(c, func(p *model.Player) {
		h.unequip(c, p, action)
	})
	return nil
}

func (h *Handler) handleSwitchItem(c *GameClient, rev *protocol.Revision, data []byte) error {
	sw, err := clientpackets.ParseSwitchItem(rev, data)
	if err != nil {
		return err
	}
	if sw.Interface != constants.InventoryInterface {
		slog.Debug("switch ignored", "user", c.player.Username(), "interface", sw.Interface)
		return nil
	}
	h.submit(c, func(p *model.Player) {
		var err error
		if sw.Inserting {
			err = p.Inventory.Insert(sw.From, sw.To)
		} else {
			err = p.Inventory.Swap(sw.From, sw.To)
		}
		if err != nil {
			slog.Debug("switch rejected", "user", p.Username(), "from", sw.From, "to", sw.To, "error", err)
		}
	})
	return nil
}

func (h *Handler) handleButton(c *GameClient, rev *protocol.Revision, data []byte) error {
	button, err := clientpackets.ParseButton(rev, data)
	if err != nil {
		return err
	}
	switch button.ID {
	case constants.LogoutButton:
		h.submit(c, func(p *model.Player) {
			send(c, serverpackets.Logout{})
			p.MarkLoggedOut()
			slog.Info("logout requested", "user", p.Username())
		})
	default:
		slog.Debug("button ignored", "user", c.player.Username(), "button", button.ID)
	}
	return nil
}

func (h *Handler) handleDesign(c *GameClient, rev *protocol.Revision, data []byte) error {
	app, err := clientpackets.ParseDesign(rev, data)
	if err != nil {
		return err
	}
	if err := app.Validate(); err != nil {
		return fmt.Errorf("design: %w", err)
	}
	h.submit(c, func(p *model.Player) {
		p.Appearance = *app
		p.Flags.Flag(model.FlagAppearance)
	})
	return nil
}

// equip wears the inventory item in the clicked slot. Whatever it replaces
// goes back to the inventory; nothing changes when that would not fit.
func (h *Handler) equip(c *GameClient, p *model.Player, a *clientpackets.ItemAction) {
	item, err := p.Inventory.Get(a.Slot)
	if err != nil || item.Empty() || item.ID != a.ItemID {
		return
	}
	def, ok := h.defs.Get(item.ID)
	if !ok || !def.Wearable() {
		send(c, serverpackets.SystemText{Text: "You can't wear that."})
		return
	}

	worn, _ := p.Equipment.Get(def.Slot)
	stack := def.Stackable && worn.ID == item.ID && !worn.Empty()

	var (
		displaced []model.Item
		cleared   []int
	)
	if !worn.Empty() && !stack {
		displaced = append(displaced, worn)
	}
	switch def.Slot {
	case model.SlotWeapon:
		if shield, _ := p.Equipment.Get(model.SlotShield); def.TwoHanded && !shield.Empty() {
			displaced = append(displaced, shield)
			cleared = append(cleared, model.SlotShield)
		}
	case model.SlotShield:
		if weapon, _ := p.Equipment.Get(model.SlotWeapon); !weapon.Empty() && h.twoHanded(weapon.ID) {
			displaced = append(displaced, weapon)
			cleared = append(cleared, model.SlotWeapon)
		}
	}
	// the clicked slot takes the first displaced item
	if len(displaced) > 1 && p.Inventory.FreeSlots() < len(displaced)-1 {
		send(c, serverpackets.SystemText{Text: "You don't have enough free inventory space to do that."})
		return
	}

	_ = p.Inventory.Set(a.Slot, model.Item{})
	if stack {
		item.Amount = min(worn.Amount+item.Amount, model.MaxStack)
	}
	_ = p.Equipment.Set(def.Slot, item)
	for _, slot := range cleared {
		_ = p.Equipment.Set(slot, model.Item{})
	}
	for i, d := range displaced {
		if i == 0 {
			_ = p.Inventory.Set(a.Slot, d)
			continue
		}
		if err := p.Inventory.Add(d); err != nil {
			slog.Error("returning displaced item", "user", p.Username(), "item", d.ID, "error", err)
		}
	}
	p.Flags.Flag(model.FlagAppearance)
}

// unequip moves a worn item back to the inventory.
func (h *Handler) unequip(c *GameClient, p *model.Player, a *clientpackets.ItemAction) {
	worn, err := p.Equipment.Get(a.Slot)
	if err != nil || worn.Empty() || worn.ID != a.ItemID {
		return
	}
	if err := p.Inventory.Add(worn); err != nil {
		send(c, serverpackets.SystemText{Text: "You don't have enough free inventory space to do that."})
		return
	}
	_ = p.Equipment.Set(a.Slot, model.Item{})
	p.Flags.Flag(model.FlagAppearance)
}

func (h *Handler) twoHanded(id int) bool {
	def, ok := h.defs.Get(id)
	return ok && def.TwoHanded
}
