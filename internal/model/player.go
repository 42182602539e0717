package model

import (
	"github.com/udisondev/rs2go/internal/constants"
)

// DefaultSpawn is where new characters appear.
var DefaultSpawn = Position{X: 3222, Y: 3222, Plane: 0}

// Player is a logged-in character.
//
// A Player is owned by the world's tick goroutine: everything except the
// immutable index and profile pointer is read and written only from there.
type Player struct {
	index   int
	profile *Profile

	Appearance Appearance
	Stats      *Stats
	Inventory  *Container
	Equipment  *Container

	position Position
	// region is the position the client's current map was loaded around.
	region        Position
	regionLoaded  bool
	regionPending bool

	Queue    WalkingQueue
	Movement Movement
	Flags    UpdateFlags
	Local    *LocalList

	teleportTarget *Position
	teleporting    bool
	loggedOut      bool
}

// NewPlayer creates a player at a position. The first synchronization
// places it with a teleport so the client loads the surrounding map.
func NewPlayer(profile *Profile, defs *EquipmentDefinitions, pos Position) *Player {
	p := &Player{
		profile:    profile,
		Appearance: DefaultAppearance(),
		Stats:      NewStats(),
		Inventory:  NewContainer(constants.InventorySize, StackDefinitions, defs),
		Equipment:  NewContainer(constants.EquipmentSize, StackDefinitions, defs),
		position:   pos,
		Local:      NewLocalList(),
		Movement:   Movement{Primary: DirectionNone, Secondary: DirectionNone},
	}
	p.Teleport(pos)
	p.Flags.Flag(FlagAppearance)
	return p
}

// Index returns the protocol index (1..2046), 0 before registration.
func (p *Player) Index() int {
	return p.index
}

// SetIndex assigns the protocol index. Called once by the world.
func (p *Player) SetIndex(i int) {
	p.index = i
}

// Profile returns the account the player logged in with.
func (p *Player) Profile() *Profile {
	return p.profile
}

// Username returns the account name.
func (p *Player) Username() string {
	return p.profile.Username
}

// Rights returns the account's privilege level.
func (p *Player) Rights() int {
	return p.profile.Rights
}

// Position returns the current tile.
func (p *Player) Position() Position {
	return p.position
}

// Region returns the position the client's map is centered on.
func (p *Player) Region() Position {
	return p.region
}

// RegionPending reports whether a new map region must be sent this tick.
func (p *Player) RegionPending() bool {
	return p.regionPending
}

// Teleport schedules a move to pos on the next tick.
func (p *Player) Teleport(pos Position) {
	p.teleportTarget = &pos
}

// Teleporting reports whether the player was placed by a teleport this tick.
// Other viewers drop a teleporting player from their local lists and
// re-add it at the new tile.
func (p *Player) Teleporting() bool {
	return p.teleporting
}

// LoggedOut reports whether the player has left the world.
func (p *Player) LoggedOut() bool {
	return p.loggedOut
}

// MarkLoggedOut flags the player for removal after the current tick.
func (p *Player) MarkLoggedOut() {
	p.loggedOut = true
	p.Queue.Clear()
}

// ProcessMovement computes this tick's movement: a pending teleport wins,
// otherwise the walking queue advances. A region update is scheduled when the
// player nears the edge of the loaded map.
func (p *Player) ProcessMovement() {
	if p.teleportTarget != nil {
		target := *p.teleportTarget
		p.teleportTarget = nil
		p.Queue.Clear()
		p.position = target
		p.teleporting = true
		p.Movement = Movement{Type: MovementTeleport, Primary: DirectionNone, Secondary: DirectionNone, RegionChanged: true}
		p.checkRegion()
		return
	}

	m, pos := p.Queue.Process(p.position)
	p.position = pos
	p.Movement = m
	p.checkRegion()
}

func (p *Player) checkRegion() {
	if p.regionLoaded && p.position.Plane == p.region.Plane && !NeedsRegionUpdate(p.position, p.region) {
		return
	}
	p.region = p.position
	p.regionLoaded = true
	p.regionPending = true
}

// SelfPlacement reports whether the player's own client needs an absolute
// placement this tick instead of walk or run steps.
func (p *Player) SelfPlacement() bool {
	return p.teleporting || p.regionPending
}

// ResetTick clears the per-tick state after synchronization.
func (p *Player) ResetTick() {
	p.Flags.Reset()
	p.teleporting = false
	p.regionPending = false
	p.Movement = Movement{Type: MovementNone, Primary: DirectionNone, Secondary: DirectionNone}
}

// CombatLevel returns the combat level shown to other players.
func (p *Player) CombatLevel() int {
	return p.Stats.CombatLevel()
}

// Visible reports whether other should be in this player's local list.
func (p *Player) Visible(other *Player) bool {
	return other != p &&
		!other.loggedOut &&
		!other.teleporting &&
		p.position.WithinView(other.position)
}
