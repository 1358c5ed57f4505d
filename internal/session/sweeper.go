package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wardenlabs/warden/internal/platform"
)

// Sweeper cancels sessions idle longer than a TTL, on a cron schedule. A
// zero TTL disables sweeping entirely.
type Sweeper struct {
	runtime *Runtime
	ttl     time.Duration
	cron    *cron.Cron
}

// NewSweeper builds a sweeper; Start must be called to arm it. The schedule
// uses cron syntax, including descriptors like "@every 5m".
func NewSweeper(rt *Runtime, ttl time.Duration, schedule string) (*Sweeper, error) {
	s := &Sweeper{runtime: rt, ttl: ttl}
	if ttl <= 0 {
		return s, nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) Start() {
	if s.cron == nil {
		return
	}
	slog.Info("session sweeper started", "idle_ttl", s.ttl)
	s.cron.Start()
}

func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	cancelled := s.runtime.sweepIdle(context.Background(), s.ttl)
	if cancelled > 0 {
		slog.Info("idle sessions cancelled", "count", cancelled)
	}
}

// sweepIdle cancels every session whose last activity is older than ttl,
// using the session's origin message for lifecycle hooks.
func (r *Runtime) sweepIdle(ctx context.Context, ttl time.Duration) int {
	type pending struct {
		hooks  cancelHooks
		origin platform.Message
		id     int64
	}

	r.mu.Lock()
	cutoff := time.Now().Add(-ttl)
	var idle []pending
	for id, sess := range r.sessions {
		if sess.lastActive.Before(cutoff) {
			idle = append(idle, pending{hooks: r.cancelLocked(sess), origin: sess.origin, id: id})
		}
	}
	r.mu.Unlock()

	for _, p := range idle {
		if err := p.hooks.run(ctx, p.origin, p.id); err != nil {
			slog.Error("idle session cancel hook failed", "id", p.id, "error", err)
		}
	}
	return len(idle)
}
