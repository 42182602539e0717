package model

import (
	"errors"
	"fmt"

	"github.com/udisondev/rs2go/internal/constants"
)

var (
	// ErrListFull is returned when a local list already has the maximum slots.
	ErrListFull = errors.New("local list full")
	// ErrAlreadyTracked is returned when an entity is added twice.
	ErrAlreadyTracked = errors.New("already tracked")
)

type localSlot struct {
	player  *Player
	evicted bool
}

// LocalList is the ordered set of players one viewer's client knows about.
//
// The order is the order of the wire slots in the synchronization message.
// A slot can be evicted by the other side (the tracked player dropped this
// viewer); it keeps its position until the owner's next synchronization
// writes the removal marker for it, so the client's list and ours never
// disagree about slot positions.
type LocalList struct {
	slots []localSlot
	index map[int]int // player index -> slot
}

// NewLocalList creates an empty list.
func NewLocalList() *LocalList {
	return &LocalList{index: make(map[int]int)}
}

// Len returns the number of wire slots, evicted ones included.
func (l *LocalList) Len() int {
	return len(l.slots)
}

// Full reports whether no more players can be added.
func (l *LocalList) Full() bool {
	return len(l.slots) >= constants.LocalListCapacity
}

// Contains reports whether a player is tracked and not evicted.
func (l *LocalList) Contains(p *Player) bool {
	i, ok := l.index[p.Index()]
	return ok && l.slots[i].player == p && !l.slots[i].evicted
}

// Add appends a player to the end of the list.
func (l *LocalList) Add(p *Player) error {
	if _, ok := l.index[p.Index()]; ok {
		return fmt.Errorf("player %d: %w", p.Index(), ErrAlreadyTracked)
	}
	if l.Full() {
		return fmt.Errorf("adding player %d: %w", p.Index(), ErrListFull)
	}
	l.index[p.Index()] = len(l.slots)
	l.slots = append(l.slots, localSlot{player: p})
	return nil
}

// Evict marks a tracked player as gone. It returns false if the player was
// not tracked.
func (l *LocalList) Evict(p *Player) bool {
	i, ok := l.index[p.Index()]
	if !ok || l.slots[i].player != p {
		return false
	}
	l.slots[i].evicted = true
	return true
}

// Each visits every slot in order without changing the list.
func (l *LocalList) Each(fn func(p *Player, evicted bool)) {
	for _, s := range l.slots {
		fn(s.player, s.evicted)
	}
}

// Sweep visits every slot in order and keeps those for which keep returns true.
func (l *LocalList) Sweep(keep func(p *Player, evicted bool) bool) {
	kept := l.slots[:0]
	clear(l.index)
	for _, s := range l.slots {
		if !keep(s.player, s.evicted) {
			continue
		}
		l.index[s.player.Index()] = len(kept)
		kept = append(kept, s)
	}
	clear(l.slots[len(kept):])
	l.slots = kept
}

// Players returns the tracked, non-evicted players in slot order.
func (l *LocalList) Players() []*Player {
	out := make([]*Player, 0, len(l.slots))
	for _, s := range l.slots {
		if !s.evicted {
			out = append(out, s.player)
		}
	}
	return out
}

// Clear empties the list.
func (l *LocalList) Clear() {
	clear(l.slots)
	l.slots = l.slots[:0]
	clear(l.index)
}
