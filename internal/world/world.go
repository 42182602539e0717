package world

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/model"
)

var (
	// ErrWorldFull is returned when no protocol index is free.
	ErrWorldFull = errors.New("world full")
	// ErrAlreadyRegistered is returned when a player is registered twice.
	ErrAlreadyRegistered = errors.New("player already registered")
)

// Job is a deferred world mutation. Jobs run on the tick goroutine before
// any player is processed, so they may touch players freely.
type Job func(w *World)

// World is the table of live players.
//
// The table itself is owned by the tick goroutine. Other goroutines (network
// readers) mutate it only through Submit. Online is safe from any goroutine.
type World struct {
	players  []*model.Player // indexed by protocol index, slot 0 unused
	capacity int
	byName   map[string]*model.Player

	mu   sync.Mutex
	jobs []Job

	online atomic.Int32
}

// New creates a world holding up to maxPlayers players. The protocol limits
// the count to 2046.
func New(maxPlayers int) *World {
	capacity := min(max(maxPlayers, 1), constants.MaxPlayerIndex)
	return &World{
		players:  make([]*model.Player, capacity+1),
		capacity: capacity,
		byName:   make(map[string]*model.Player),
	}
}

// Capacity returns the maximum number of players.
func (w *World) Capacity() int {
	return w.capacity
}

// Online returns the number of registered players.
func (w *World) Online() int {
	return int(w.online.Load())
}

// Full reports whether every index is taken.
func (w *World) Full() bool {
	return w.Online() >= w.capacity
}

// Submit queues a job for the next tick.
func (w *World) Submit(job Job) {
	w.mu.Lock()
	w.jobs = append(w.jobs, job)
	w.mu.Unlock()
}

// takeJobs detaches the queued jobs. Jobs submitted afterwards wait for the
// next tick.
func (w *World) takeJobs() []Job {
	w.mu.Lock()
	jobs := w.jobs
	w.jobs = nil
	w.mu.Unlock()
	return jobs
}

// Pending returns the number of queued jobs.
func (w *World) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.jobs)
}

// Register assigns the lowest free index to p.
func (w *World) Register(p *model.Player) error {
	key := model.NormalizeName(p.Username())
	if _, ok := w.byName[key]; ok {
		return fmt.Errorf("registering %s: %w", p.Username(), ErrAlreadyRegistered)
	}
	for i := 1; i < len(w.players); i++ {
		if w.players[i] != nil {
			continue
		}
		p.SetIndex(i)
		w.players[i] = p
		w.byName[key] = p
		w.online.Add(1)
		return nil
	}
	return fmt.Errorf("registering %s: %w", p.Username(), ErrWorldFull)
}

// Unregister frees the player's index. Unknown players are ignored.
func (w *World) Unregister(p *model.Player) {
	i := p.Index()
	if i <= 0 || i >= len(w.players) || w.players[i] != p {
		return
	}
	w.players[i] = nil
	delete(w.byName, model.NormalizeName(p.Username()))
	w.online.Add(-1)
}

// Player returns the player at an index.
func (w *World) Player(index int) (*model.Player, bool) {
	if index <= 0 || index >= len(w.players) || w.players[index] == nil {
		return nil, false
	}
	return w.players[index], true
}

// Find looks a player up by username.
func (w *World) Find(username string) (*model.Player, bool) {
	p, ok := w.byName[model.NormalizeName(username)]
	return p, ok
}

// Players returns the registered players in index order.
func (w *World) Players() []*model.Player {
	out := make([]*model.Player, 0, w.Online())
	for _, p := range w.players[1:] {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
