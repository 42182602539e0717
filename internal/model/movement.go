package model

import "github.com/udisondev/rs2go/internal/constants"

// MovementType is the shape of a player's movement for one tick.
type MovementType int

const (
	MovementNone MovementType = iota
	MovementWalk
	MovementRun
	MovementTeleport
)

func (t MovementType) String() string {
	switch t {
	case MovementWalk:
		return "walk"
	case MovementRun:
		return "run"
	case MovementTeleport:
		return "teleport"
	default:
		return "none"
	}
}

// Movement is what the synchronization message reports for one tick.
type Movement struct {
	Type      MovementType
	Primary   Direction
	Secondary Direction
	// RegionChanged is set on a placement that discards the client's path.
	RegionChanged bool
}

// MaxWaypoints bounds the walking queue.
const MaxWaypoints = 50

// WalkingQueue holds the steps a player still has to take.
type WalkingQueue struct {
	steps   []Position
	Running bool
}

// Clear drops all pending steps.
func (q *WalkingQueue) Clear() {
	q.steps = q.steps[:0]
	q.Running = false
}

// Len returns the number of pending steps.
func (q *WalkingQueue) Len() int {
	return len(q.steps)
}

// Walk replaces the queue with a path from current through the given
// waypoints. Diagonal and straight segments are expanded into single steps.
func (q *WalkingQueue) Walk(current Position, waypoints []Position, running bool) {
	q.steps = q.steps[:0]
	q.Running = running
	last := current
	for _, wp := range waypoints {
		wp.Plane = current.Plane
		for last.X != wp.X || last.Y != wp.Y {
			if len(q.steps) >= MaxWaypoints {
				return
			}
			last.X += sign(wp.X - last.X)
			last.Y += sign(wp.Y - last.Y)
			q.steps = append(q.steps, last)
		}
	}
}

// next pops one step, returning its direction from current.
func (q *WalkingQueue) next(current Position) (Direction, Position) {
	if len(q.steps) == 0 {
		return DirectionNone, current
	}
	step := q.steps[0]
	q.steps = q.steps[1:]
	d := DirectionBetween(current, step)
	if d == DirectionNone {
		q.steps = q.steps[:0]
		return DirectionNone, current
	}
	return d, step
}

// Process advances a position by one tick of movement: one step walking,
// two when running.
func (q *WalkingQueue) Process(current Position) (Movement, Position) {
	first, pos := q.next(current)
	if first == DirectionNone {
		return Movement{Type: MovementNone, Primary: DirectionNone, Secondary: DirectionNone}, current
	}
	if !q.Running {
		return Movement{Type: MovementWalk, Primary: first, Secondary: DirectionNone}, pos
	}
	second, pos2 := q.next(pos)
	if second == DirectionNone {
		return Movement{Type: MovementWalk, Primary: first, Secondary: DirectionNone}, pos
	}
	return Movement{Type: MovementRun, Primary: first, Secondary: second}, pos2
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// NeedsRegionUpdate reports whether p is too close to the edge of the map
// loaded around base.
func NeedsRegionUpdate(p, base Position) bool {
	lx, ly := p.LocalX(base), p.LocalY(base)
	edge := constants.RegionRefreshDistance
	return lx < edge || lx >= 104-edge || ly < edge || ly >= 104-edge
}
