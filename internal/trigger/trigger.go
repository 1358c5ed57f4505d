// Package trigger reacts to non-command messages that match configured
// words. Rules live in guild settings: "triggers.react.<word>" holds the
// emoji to react with, and "triggers.enabled" switches the whole mechanism.
package trigger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/settings"
)

const (
	KeyEnabled     = "triggers.enabled"
	KeyReactPrefix = "triggers.react."
)

// Engine matches messages against the guild's reaction rules.
type Engine struct {
	settings *settings.Store
	boolean  argparse.Converter
}

func New(st *settings.Store) *Engine {
	return &Engine{settings: st, boolean: argparse.BooleanExact(argparse.BoolSpec{})}
}

// HandleMessage applies the first matching rule. Matching is a
// case-insensitive substring check on the trigger word.
func (e *Engine) HandleMessage(ctx context.Context, msg platform.Message) error {
	guildID := msg.GuildID()
	if guildID == "" {
		return nil
	}

	enabled, err := e.enabled(guildID)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	names, err := e.settings.Names(guildID)
	if err != nil {
		return err
	}

	content := strings.ToLower(msg.Content())
	for _, name := range names {
		word := strings.TrimPrefix(name, KeyReactPrefix)
		if word == name || word == "" {
			continue
		}
		if !strings.Contains(content, strings.ToLower(word)) {
			continue
		}

		emojis, err := e.settings.Get(guildID, name)
		if err != nil {
			return err
		}
		for _, emoji := range emojis {
			if err := msg.React(ctx, emoji); err != nil {
				slog.Warn("reaction failed", "guild", guildID, "word", word, "emoji", emoji, "error", err)
			}
		}
		return nil
	}
	return nil
}

func (e *Engine) enabled(guildID string) (bool, error) {
	raw, err := e.settings.First(guildID, KeyEnabled, "")
	if err != nil || raw == "" {
		return true, err
	}
	v, err := e.boolean(raw)
	if err != nil {
		return true, nil
	}
	return v.(bool), nil
}
