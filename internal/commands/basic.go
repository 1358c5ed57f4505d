package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/text"
)

// Info prints the bot's identity and version.
type Info struct {
	command
	version string
}

func NewInfo(prog, version string) *Info {
	return &Info{command: command{prog: prog, desc: "Print info"}, version: version}
}

func (h *Info) Arguments(p *argparse.Parser) {}

func (h *Info) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	return text.Mention(msg.Author().ID, strings.Join([]string{
		"> **warden** — command dispatch and guild configuration bot",
		fmt.Sprintf("> Version `%s`", h.version),
		"> https://github.com/wardenlabs/warden",
	}, "\n")), nil
}

func (h *Info) FormatHelp(words []string) string { return dispatch.HelpText(h) }

// Ping reports the gateway latency for the invoking message.
type Ping struct {
	command
}

func NewPing(prog string) *Ping {
	return &Ping{command: command{prog: prog, desc: "Api latency"}}
}

func (h *Ping) Arguments(p *argparse.Parser) {}

func (h *Ping) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	latency := time.Since(msg.Timestamp())
	return fmt.Sprintf("**Pong!** API latency: `%dms`", latency.Milliseconds()), nil
}

func (h *Ping) FormatHelp(words []string) string { return dispatch.HelpText(h) }

// Time prints the current wall-clock time.
type Time struct {
	command
}

func NewTime(prog string) *Time {
	return &Time{command: command{prog: prog, desc: "Print current time"}}
}

func (h *Time) Arguments(p *argparse.Parser) {}

func (h *Time) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	now := time.Now()
	return text.Mention(msg.Author().ID, fmt.Sprintf(
		"> The current time is: %02d:%02d on %d-%02d-%02d",
		now.Hour(), now.Minute(), now.Year(), now.Month(), now.Day())), nil
}

func (h *Time) FormatHelp(words []string) string { return dispatch.HelpText(h) }

// Help lists all commands, or re-dispatches "<command> -h" for one.
type Help struct {
	command
}

func NewHelp(prog string) *Help {
	return &Help{command: command{prog: prog, desc: "Print help"}}
}

func (h *Help) Arguments(p *argparse.Parser) {
	p.AddPositional("command", argparse.Spec{
		Arity: argparse.ZeroOrMore,
		Help:  "The command you need help on!",
	})
}

func (h *Help) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	words := ns.Strings("command")

	if len(words) > 0 {
		name := strings.TrimPrefix(words[0], inv.Prefix)
		tokens := append([]string{name, "-h"}, words[1:]...)
		return inv.Handle(ctx, tokens, body, msg)
	}

	lines := []string{"Available commands:"}
	for _, name := range inv.Registry.Names() {
		handler, _ := inv.Registry.Get(name)
		lines = append(lines, text.NameDescription(name, handler.Description(), text.ColumnOptions{
			Tab:    16,
			Prefix: "  " + inv.Prefix,
		}))
	}
	return text.Mention(msg.Author().ID,
		"```yml\n"+strings.Join(lines, "\n")+"\n```"), nil
}

func (h *Help) FormatHelp(words []string) string { return dispatch.HelpText(h) }
