package clientpackets

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Walk is a path request: an absolute first tile followed by offsets.
type Walk struct {
	Path    []model.Position
	Running bool
}

// ParseWalk decodes a walk message. trailer bytes at the end of the payload
// are not part of the path (the minimap variant appends them).
func ParseWalk(rev *protocol.Revision, data []byte, trailer int) (*Walk, error) {
	l := &rev.Layout
	if trailer < 0 || trailer > len(data) {
		return nil, fmt.Errorf("walk of %d bytes with %d byte trailer: %w", len(data), trailer, ErrMalformed)
	}
	data = data[:len(data)-trailer]

	// first x (2), first y (2), running (1), then two bytes per extra step
	rest := len(data) - 5
	if rest < 0 || rest%2 != 0 {
		return nil, fmt.Errorf("walk of %d bytes: %w", len(data), ErrMalformed)
	}
	steps := rest / 2
	if steps+1 > model.MaxWaypoints {
		return nil, fmt.Errorf("walk of %d steps: %w", steps+1, ErrMalformed)
	}

	r := packet.NewReader(data)
	firstX, err := l.WalkFirstX.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading first x: %w", err)
	}

	offsets := make([][2]int, steps)
	for i := range offsets {
		dx, err := r.ReadInt8(true, packet.Std)
		if err != nil {
			return nil, fmt.Errorf("reading step %d: %w", i, err)
		}
		dy, err := r.ReadInt8(true, packet.Std)
		if err != nil {
			return nil, fmt.Errorf("reading step %d: %w", i, err)
		}
		offsets[i] = [2]int{dx, dy}
	}

	firstY, err := l.WalkFirstY.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading first y: %w", err)
	}
	running, err := l.WalkRunning.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading run flag: %w", err)
	}

	w := &Walk{Path: make([]model.Position, 0, steps+1), Running: running == 1}
	w.Path = append(w.Path, model.Position{X: firstX, Y: firstY})
	for _, o := range offsets {
		w.Path = append(w.Path, model.Position{X: firstX + o[0], Y: firstY + o[1]})
	}
	return w, nil
}
