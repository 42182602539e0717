package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/rs2go/internal/db"
	"github.com/udisondev/rs2go/internal/gameserver/clientpackets"
	"github.com/udisondev/rs2go/internal/gameserver/serverpackets"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
	"github.com/udisondev/rs2go/internal/world"
)

// commandTimeout bounds the profile writes of moderation commands.
const commandTimeout = 5 * time.Second

// errUsage makes the dispatcher print the command's usage line.
var errUsage = errors.New("usage")

// command is one "::name args" chat command.
// run is called on the reader goroutine and schedules world changes as jobs.
type command struct {
	rights int
	usage  string
	run    func(ctx context.Context, h *Handler, c *GameClient, args []string) error
}

var commands = map[string]command{
	"pos":    {rights: model.RightsPlayer, run: cmdPosition},
	"anim":   {rights: model.RightsPlayer, usage: "<id>", run: cmdAnimation},
	"gfx":    {rights: model.RightsPlayer, usage: "<id> [height]", run: cmdGraphic},
	"empty":  {rights: model.RightsPlayer, run: cmdEmpty},
	"tele":   {rights: model.RightsModerator, usage: "<x> <y> [plane]", run: cmdTeleport},
	"item":   {rights: model.RightsModerator, usage: "<id> [amount]", run: cmdItem},
	"hit":    {rights: model.RightsModerator, usage: "<damage>", run: cmdHit},
	"mute":   {rights: model.RightsAdmin, usage: "<player>", run: cmdMute(true)},
	"unmute": {rights: model.RightsAdmin, usage: "<player>", run: cmdMute(false)},
	"ban":    {rights: model.RightsAdmin, usage: "<player>", run: cmdBan},
}

func (h *Handler) handleCommand(ctx context.Context, c *GameClient, rev *protocol.Revision, data []byte) error {
	cmd, err := clientpackets.ParseCommand(rev, data)
	if err != nil {
		return err
	}
	def, ok := commands[cmd.Name]
	if !ok || c.player.Rights() < def.rights {
		h.tell(c, "Unknown command: "+cmd.Name)
		return nil
	}

	slog.Debug("command", "user", c.player.Username(), "command", cmd.Name, "args", cmd.Args)
	err = def.run(ctx, h, c, cmd.Args)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		h.tell(c, strings.TrimSpace("Usage: ::"+cmd.Name+" "+def.usage))
	default:
		slog.Error("command failed", "user", c.player.Username(), "command", cmd.Name, "error", err)
		h.tell(c, "The command failed.")
	}
	return nil
}

// intArgs parses the required then the optional integer arguments.
// Missing optional ones keep the given defaults.
func intArgs(args []string, required int, defaults ...int) ([]int, error) {
	if len(args) < required || len(args) > required+len(defaults) {
		return nil, errUsage
	}
	out := make([]int, required+len(defaults))
	copy(out[required:], defaults)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, errUsage
		}
		out[i] = v
	}
	return out, nil
}

func cmdPosition(_ context.Context, h *Handler, c *GameClient, _ []string) error {
	h.submit(c, func(p *model.Player) {
		send(c, serverpackets.SystemText{Text: fmt.Sprintf("You are at %s.", p.Position())})
	})
	return nil
}

func cmdAnimation(_ context.Context, h *Handler, c *GameClient, args []string) error {
	v, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	h.submit(c, func(p *model.Player) {
		p.Flags.PlayAnimation(model.Animation{ID: v[0]})
	})
	return nil
}

func cmdGraphic(_ context.Context, h *Handler, c *GameClient, args []string) error {
	v, err := intArgs(args, 1, 100)
	if err != nil {
		return err
	}
	h.submit(c, func(p *model.Player) {
		p.Flags.PlayGraphic(model.Graphic{ID: v[0], Height: v[1]})
	})
	return nil
}

func cmdEmpty(_ context.Context, h *Handler, c *GameClient, _ []string) error {
	h.submit(c, func(p *model.Player) {
		p.Inventory.Clear()
	})
	return nil
}

func cmdTeleport(_ context.Context, h *Handler, c *GameClient, args []string) error {
	v, err := intArgs(args, 2, 0)
	if err != nil {
		return err
	}
	x, y, plane := v[0], v[1], v[2]
	if x < 0 || y < 0 || x > 0x3FFF || y > 0x3FFF || plane < 0 || plane > 3 {
		return errUsage
	}
	h.submit(c, func(p *model.Player) {
		p.Teleport(model.NewPosition(x, y, plane))
	})
	return nil
}

func cmdItem(_ context.Context, h *Handler, c *GameClient, args []string) error {
	v, err := intArgs(args, 1, 1)
	if err != nil {
		return err
	}
	id, amount := v[0], v[1]
	if id < 0 || amount <= 0 {
		return errUsage
	}
	h.submit(c, func(p *model.Player) {
		if err := p.Inventory.Add(model.Item{ID: id, Amount: amount}); err != nil {
			send(c, serverpackets.SystemText{Text: "You don't have enough free inventory space to do that."})
		}
	})
	return nil
}

func cmdHit(_ context.Context, h *Handler, c *GameClient, args []string) error {
	v, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	if v[0] < 0 {
		return errUsage
	}
	h.submit(c, func(p *model.Player) {
		damage := min(v[0], p.Stats.Skill(model.SkillHitpoints).Level)
		hit := model.Hit{Damage: damage, Type: model.HitNormal}
		if damage == 0 {
			hit.Type = model.HitBlock
		}
		p.Stats.Boost(model.SkillHitpoints, -damage)
		p.Flags.Damage(hit)
	})
	return nil
}

// targetName joins the arguments, so names with spaces work unquoted.
func targetName(args []string) (string, error) {
	name := model.NormalizeName(strings.Join(args, " "))
	if name == "" {
		return "", errUsage
	}
	return name, nil
}

func cmdMute(muted bool) func(context.Context, *Handler, *GameClient, []string) error {
	return func(ctx context.Context, h *Handler, c *GameClient, args []string) error {
		name, err := targetName(args)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		if err := h.profiles.SetMuted(ctx, name, muted); err != nil {
			if errors.Is(err, db.ErrProfileNotFound) {
				h.tell(c, "No such player: "+name)
				return nil
			}
			return fmt.Errorf("muting %s: %w", name, err)
		}

		verb, notice := "unmuted", "You have been unmuted."
		if muted {
			verb, notice = "muted", "You have been muted."
		}
		slog.Info("player "+verb, "user", name, "by", c.player.Username())
		h.world.Submit(func(w *world.World) {
			if target, ok := w.Find(name); ok {
				target.Profile().Muted = muted
				if tc := h.clients.Client(target); tc != nil {
					send(tc, serverpackets.SystemText{Text: notice})
				}
			}
			send(c, serverpackets.SystemText{Text: fmt.Sprintf("%s has been %s.", name, verb)})
		})
		return nil
	}
}

func cmdBan(ctx context.Context, h *Handler, c *GameClient, args []string) error {
	name, err := targetName(args)
	if err != nil {
		return err
	}
	if name == model.NormalizeName(c.player.Username()) {
		h.tell(c, "You can't ban yourself.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if err := h.profiles.SetBanned(ctx, name, true); err != nil {
		if errors.Is(err, db.ErrProfileNotFound) {
			h.tell(c, "No such player: "+name)
			return nil
		}
		return fmt.Errorf("banning %s: %w", name, err)
	}

	slog.Info("player banned", "user", name, "by", c.player.Username())
	h.world.Submit(func(w *world.World) {
		if target, ok := w.Find(name); ok && !target.LoggedOut() {
			target.Profile().Banned = true
			if tc := h.clients.Client(target); tc != nil {
				send(tc, serverpackets.Logout{})
			}
			target.MarkLoggedOut()
		}
		send(c, serverpackets.SystemText{Text: name + " has been banned."})
	})
	return nil
}
