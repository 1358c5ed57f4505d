package dispatch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/wardenlabs/warden/internal/logger"
	"github.com/wardenlabs/warden/internal/parse"
	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/session"
	"github.com/wardenlabs/warden/internal/settings"
)

// Alias settings keys. An alias named "x" lives at "aliases.x"; a leading
// AliasBypass token skips substitution so aliased names stay reachable.
const (
	AliasPrefix = "aliases"
	AliasBypass = "command"
)

// Trigger reacts to non-command messages that no session consumed.
type Trigger interface {
	HandleMessage(ctx context.Context, msg platform.Message) error
}

// Dispatcher drives the full message pipeline.
type Dispatcher struct {
	prefix   string
	registry *Registry
	settings *settings.Store
	perms    *permission.Resolver
	sessions *session.Runtime
	trigger  Trigger
}

func New(prefix string, registry *Registry, st *settings.Store, perms *permission.Resolver, sessions *session.Runtime, trigger Trigger) *Dispatcher {
	return &Dispatcher{
		prefix:   prefix,
		registry: registry,
		settings: st,
		perms:    perms,
		sessions: sessions,
		trigger:  trigger,
	}
}

// HandleMessage consumes one inbound message. Non-command messages are
// offered to the author's session, then to passive triggers; command
// messages are dispatched. The returned string is the reply to send, empty
// for silence.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg platform.Message) (string, error) {
	parsed := parse.Message(msg.Content(), d.prefix)

	if !parsed.IsCommand {
		handled, err := d.sessions.MaybeHandle(ctx, msg)
		if err != nil {
			slog.Error("session message failed", "error", err)
			return "", err
		}
		if !handled && d.trigger != nil {
			if err := d.trigger.HandleMessage(ctx, msg); err != nil {
				slog.Error("trigger failed", "error", err)
			}
		}
		return "", nil
	}

	return d.Handle(ctx, parsed.Tokens, parsed.Body, msg, parsed.CommandLine)
}

// Handle dispatches already-tokenized command input. Every recognized path
// produces a reply; errors from the taxonomy are rendered, never returned.
func (d *Dispatcher) Handle(ctx context.Context, tokens []string, body string, msg platform.Message, commandLine string) (string, error) {
	if commandLine == "" {
		commandLine = strings.Join(tokens, " ")
	}

	inv := &Invocation{
		ID:          ulid.Make().String(),
		CommandLine: commandLine,
		Prefix:      d.prefix,
		Registry:    d.registry,
	}
	inv.Handle = func(ctx context.Context, tokens []string, body string, msg platform.Message) (string, error) {
		return d.Handle(ctx, tokens, body, msg, "")
	}
	ctx = logger.WithInvocationID(ctx, inv.ID)

	level, err := d.perms.Calculate(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "permission resolution failed", "error", err)
		return d.reply(msg, codeBlock(err.Error())), nil
	}
	inv.Level = level

	tokens, substituted := d.applyAliases(tokens, msg.GuildID())
	if substituted {
		slog.DebugContext(ctx, "alias applied", "command", strings.Join(tokens, " "))
	}

	if len(tokens) == 0 {
		return d.reply(msg, "> No command supplied!"), nil
	}
	name, rest := tokens[0], tokens[1:]

	slog.InfoContext(ctx, "dispatching command",
		"command", name,
		"guild", msg.GuildID(),
		"user", msg.Author().Tag,
		"level", level.Level,
	)

	h, ok := d.registry.Get(name)
	if !ok {
		return d.reply(msg, "> Command not found: `"+d.prefix+name+"`"), nil
	}

	out, err := d.run(ctx, h, rest, body, msg, inv)
	if err != nil {
		return d.renderError(msg, h, err), nil
	}
	return out, nil
}

func (d *Dispatcher) run(ctx context.Context, h Handler, tokens []string, body string, msg platform.Message, inv *Invocation) (string, error) {
	ns, _, err := ParserFor(h).ParseKnownArgs(tokens)
	if err != nil {
		return "", err
	}
	return h.Execute(ctx, ns, body, msg, inv)
}

// applyAliases substitutes the leading token per the guild's alias settings.
// The bool reports whether tokens changed (substitution or bypass).
func (d *Dispatcher) applyAliases(tokens []string, guildID string) ([]string, bool) {
	if len(tokens) == 0 || guildID == "" {
		return tokens, false
	}
	if tokens[0] == AliasBypass {
		return tokens[1:], true
	}

	replacement, err := d.settings.Get(guildID, AliasPrefix+"."+tokens[0])
	if err != nil {
		slog.Warn("alias lookup failed", "guild", guildID, "error", err)
		return tokens, false
	}
	if len(replacement) == 0 {
		return tokens, false
	}
	return append(append([]string(nil), replacement...), tokens[1:]...), true
}
