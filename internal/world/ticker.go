package world

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/udisondev/rs2go/internal/model"
)

// Tick phases, used in errors and metric labels.
const (
	PhaseJobs = "jobs"
	PhasePre  = "pre"
	PhaseSync = "sync"
	PhasePost = "post"
)

// SyncFunc builds and sends one player's messages for the tick.
type SyncFunc func(p *model.Player) error

// LeaveFunc is called once a logged-out player has been removed from the world.
type LeaveFunc func(p *model.Player)

// TickerOption configures a Ticker.
type TickerOption func(*Ticker)

// WithMetrics records tick statistics.
func WithMetrics(m *Metrics) TickerOption {
	return func(t *Ticker) {
		t.metrics = m
	}
}

// WithLeaveHook sets the function called for every removed player.
func WithLeaveHook(fn LeaveFunc) TickerOption {
	return func(t *Ticker) {
		t.leave = fn
	}
}

// Ticker drives the world at a fixed interval.
//
// Every tick runs the queued jobs, then three passes over the players:
// pre (movement), sync (per-player messages) and post (per-tick reset and
// removal of logged-out players). A failure or panic for one player in one
// pass is recorded and the pass continues with the next player.
type Ticker struct {
	world    *World
	interval time.Duration
	sync     SyncFunc
	leave    LeaveFunc
	metrics  *Metrics
	tick     uint64
}

// NewTicker creates a tick driver.
func NewTicker(w *World, interval time.Duration, sync SyncFunc, opts ...TickerOption) *Ticker {
	t := &Ticker{
		world:    w,
		interval: interval,
		sync:     sync,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run ticks until ctx is canceled.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	slog.Info("world ticker started", "interval", t.interval, "capacity", t.world.Capacity())

	for {
		select {
		case <-ctx.Done():
			slog.Info("world ticker stopping")
			return nil
		case <-ticker.C:
			// failures are logged per player inside Tick
			_ = t.Tick()
		}
	}
}

// Tick runs one tick. The returned error aggregates every per-player failure.
func (t *Ticker) Tick() error {
	start := time.Now()
	t.tick++

	var result *multierror.Error

	jobs := t.world.takeJobs()
	for _, job := range jobs {
		if err := t.guard(PhaseJobs, nil, func() error {
			job(t.world)
			return nil
		}); err != nil {
			result = multierror.Append(result, err)
		}
	}

	players := t.world.Players()

	for _, p := range players {
		if p.LoggedOut() {
			continue
		}
		if err := t.guard(PhasePre, p, func() error {
			p.ProcessMovement()
			return nil
		}); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if t.sync != nil {
		for _, p := range players {
			if p.LoggedOut() {
				continue
			}
			if err := t.guard(PhaseSync, p, func() error {
				return t.sync(p)
			}); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	for _, p := range players {
		if err := t.guard(PhasePost, p, func() error {
			t.post(p)
			return nil
		}); err != nil {
			result = multierror.Append(result, err)
		}
	}

	elapsed := time.Since(start)
	if t.metrics != nil {
		t.metrics.TickDuration.Observe(elapsed.Seconds())
		t.metrics.Online.Set(float64(t.world.Online()))
		t.metrics.Jobs.Add(float64(len(jobs)))
	}
	if elapsed > t.interval {
		slog.Warn("tick overran", "tick", t.tick, "elapsed", elapsed, "players", len(players))
	}

	return result.ErrorOrNil()
}

func (t *Ticker) post(p *model.Player) {
	p.ResetTick()
	p.Stats.ClearDirty()
	p.Inventory.ClearDirty()
	p.Equipment.ClearDirty()

	if !p.LoggedOut() {
		return
	}
	t.world.Unregister(p)
	if t.leave != nil {
		t.leave(p)
	}
	slog.Debug("player removed from world", "user", p.Username(), "index", p.Index())
}

// guard runs fn, converting a panic into an error, and logs any failure
// with the player's name.
func (t *Ticker) guard(phase string, p *model.Player, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			slog.Error("tick panic", "phase", phase, "user", username(p), "stack", string(debug.Stack()))
		}
		if err == nil {
			return
		}
		err = fmt.Errorf("%s %s: %w", phase, username(p), err)
		slog.Error("tick failure", "phase", phase, "user", username(p), "error", err)
		if t.metrics != nil {
			t.metrics.TickErrors.WithLabelValues(phase).Inc()
		}
	}()
	return fn()
}

func username(p *model.Player) string {
	if p == nil {
		return "-"
	}
	return p.Username()
}
