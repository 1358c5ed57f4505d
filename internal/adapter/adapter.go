// Package adapter connects message platforms to the dispatcher. Each
// adapter turns its platform's events into platform.Message values, feeds
// them to the sink, and delivers the returned reply.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/wardenlabs/warden/internal/config"
	"github.com/wardenlabs/warden/internal/platform"
)

// Sink consumes inbound messages and returns the reply to send, empty for
// silence. The dispatcher is the production sink.
type Sink interface {
	HandleMessage(ctx context.Context, msg platform.Message) (string, error)
}

// Adapter is one platform connection.
type Adapter interface {
	// Name identifies the adapter in logs (e.g. "discord", "console").
	Name() string

	// Start connects and begins delivering messages to the sink. It returns
	// once the adapter is running; delivery happens on adapter goroutines.
	Start(ctx context.Context, sink Sink) error

	// Stop disconnects gracefully.
	Stop(ctx context.Context) error
}

// Manager owns the configured adapters and multiplexes their member
// directories: lookups try each adapter in order and take the first hit.
type Manager struct {
	mu       sync.RWMutex
	adapters []Adapter
	started  bool
}

func NewManager(cfg config.AdaptersConfig) (*Manager, error) {
	m := &Manager{}

	if cfg.Discord.Enabled {
		if strings.TrimSpace(cfg.Discord.Token) == "" {
			return nil, fmt.Errorf("adapters.discord.token is required when discord adapter is enabled")
		}
		m.adapters = append(m.adapters, NewDiscordAdapter(cfg.Discord.Token))
	}

	if cfg.Console.Enabled {
		m.adapters = append(m.adapters, NewConsoleAdapter(cfg.Console))
	}

	if len(m.adapters) == 0 {
		return nil, fmt.Errorf("no adapters enabled")
	}
	return m, nil
}

func (m *Manager) Start(ctx context.Context, sink Sink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}

	for _, a := range m.adapters {
		if err := a.Start(ctx, sink); err != nil {
			return fmt.Errorf("start %s adapter: %w", a.Name(), err)
		}
		slog.Info("adapter started", "adapter", a.Name())
	}
	m.started = true
	return nil
}

func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}

	for _, a := range m.adapters {
		if err := a.Stop(ctx); err != nil {
			slog.Error("adapter stop failed", "adapter", a.Name(), "error", err)
		}
	}
	m.started = false
}

// Member resolves a guild member through the first adapter directory that
// knows the guild.
func (m *Manager) Member(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lastErr error
	for _, a := range m.adapters {
		dir, ok := a.(platform.Directory)
		if !ok {
			continue
		}
		member, err := dir.Member(ctx, guildID, userID)
		if err == nil {
			return member, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no directory for guild %s", guildID)
	}
	return nil, lastErr
}

// Members lists a guild's members through the first adapter directory that
// knows the guild.
func (m *Manager) Members(ctx context.Context, guildID string) ([]platform.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lastErr error
	for _, a := range m.adapters {
		dir, ok := a.(platform.Directory)
		if !ok {
			continue
		}
		members, err := dir.Members(ctx, guildID)
		if err == nil {
			return members, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no directory for guild %s", guildID)
	}
	return nil, lastErr
}
