package commands

import (
	"context"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/session"
	"github.com/wardenlabs/warden/internal/text"
)

const echoDefaultLevel = 10

// Echo starts a session that repeats every message of its member back into
// the channel the session was started in.
type Echo struct {
	command
	deps Deps
}

func NewEcho(prog string, deps Deps) *Echo {
	return &Echo{command: command{prog: prog, desc: "Start an echo session"}, deps: deps}
}

func (h *Echo) Arguments(p *argparse.Parser) {}

func (h *Echo) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "echo", echoDefaultLevel); err != nil {
		return "", err
	}

	origin := msg
	runtime := h.deps.Sessions

	var id int64
	spec := session.Spec{
		Name:         "echo",
		Description:  "Echo every message",
		InitialState: "1",
		Transition: func(ctx context.Context, state string, m platform.Message) (string, error) {
			return state, origin.Send(ctx, m.Content())
		},
		OnStart: func(ctx context.Context, m platform.Message) error {
			return m.Send(ctx, text.Mention(origin.Author().ID, "Echo session started!"))
		},
		OnJoin: func(ctx context.Context, m platform.Message) error {
			return m.Send(ctx, "<@"+m.Author().ID+"> joined!")
		},
		OnLeave: func(ctx context.Context, m platform.Message) error {
			if err := m.Send(ctx, "<@"+m.Author().ID+"> left!"); err != nil {
				return err
			}
			// An echo session ends when its only member leaves.
			return runtime.Cancel(ctx, m, id)
		},
		OnCancel: func(ctx context.Context, m platform.Message) error {
			return m.Send(ctx, "Echo stopped!")
		},
		AllowedUsers: []string{msg.Author().ID},
		UserFilter:   session.Whitelist,
	}

	created, err := runtime.Create(ctx, msg, spec)
	if err != nil {
		return "", err
	}
	id = created

	return "", runtime.Join(ctx, msg, id, inv.Level.Level)
}

func (h *Echo) FormatHelp(words []string) string { return dispatch.HelpText(h) }
