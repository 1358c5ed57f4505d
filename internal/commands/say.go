package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
)

const sayDefaultLevel = 1

// Say deletes the invoking message and speaks its arguments as the bot.
type Say struct {
	command
	deps Deps
}

func NewSay(prog string, deps Deps) *Say {
	return &Say{command: command{prog: prog, desc: "Say a message"}, deps: deps}
}

func (h *Say) Arguments(p *argparse.Parser) {
	p.AddPositional("words", argparse.Spec{
		Arity: argparse.Remainder,
		Help:  "What to say.",
	})
}

func (h *Say) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "say", sayDefaultLevel); err != nil {
		return "", err
	}

	if err := msg.Delete(ctx); err != nil {
		slog.Debug("could not delete say invocation", "error", err)
	}

	out := strings.Join(ns.Strings("words"), " ")
	if body != "" {
		out += "\n" + body
	}
	return "", msg.Send(ctx, out)
}

func (h *Say) FormatHelp(words []string) string { return dispatch.HelpText(h) }
