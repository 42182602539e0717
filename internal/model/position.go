package model

import "fmt"

// Position is a tile in the world. Value type.
type Position struct {
	X, Y, Plane int
}

// NewPosition creates a position.
func NewPosition(x, y, plane int) Position {
	return Position{X: x, Y: y, Plane: plane}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Plane)
}

// RegionX returns the x coordinate of the 8x8 chunk the client centers its
// 104x104 map on.
func (p Position) RegionX() int {
	return (p.X >> 3) - 6
}

// RegionY returns the y coordinate of the map center chunk.
func (p Position) RegionY() int {
	return (p.Y >> 3) - 6
}

// LocalX returns x relative to the map loaded around base.
func (p Position) LocalX(base Position) int {
	return p.X - 8*base.RegionX()
}

// LocalY returns y relative to the map loaded around base.
func (p Position) LocalY(base Position) int {
	return p.Y - 8*base.RegionY()
}

// Delta returns the offset from other to p.
func (p Position) Delta(other Position) (dx, dy int) {
	return p.X - other.X, p.Y - other.Y
}

// WithinView reports whether other is on the same plane and its offset fits
// the signed five-bit delta of a local list addition. The window is -15..15 on
// both axes so that visibility is mutual.
func (p Position) WithinView(other Position) bool {
	if p.Plane != other.Plane {
		return false
	}
	dx, dy := other.Delta(p)
	return dx >= -15 && dx <= 15 && dy >= -15 && dy <= 15
}

// Step returns the adjacent tile in the given direction.
func (p Position) Step(d Direction) Position {
	if d == DirectionNone {
		return p
	}
	p.X += directionDeltaX[d]
	p.Y += directionDeltaY[d]
	return p
}

// Direction is one of the eight compass steps, numbered as the client expects.
type Direction int

const (
	DirectionNone Direction = iota - 1
	DirectionNorthWest
	DirectionNorth
	DirectionNorthEast
	DirectionWest
	DirectionEast
	DirectionSouthWest
	DirectionSouth
	DirectionSouthEast
)

var (
	directionDeltaX = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	directionDeltaY = [8]int{1, 1, 1, 0, 0, -1, -1, -1}
)

// DirectionBetween returns the direction of a single step, or DirectionNone
// if the tiles are not adjacent.
func DirectionBetween(from, to Position) Direction {
	dx, dy := to.Delta(from)
	for d := range directionDeltaX {
		if directionDeltaX[d] == dx && directionDeltaY[d] == dy {
			return Direction(d)
		}
	}
	return DirectionNone
}
