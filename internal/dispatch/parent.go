package dispatch

import (
	"context"
	"strings"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/text"
)

// Parent is a composite handler that routes its first remainder token to a
// registered sub-handler, optionally falling back to a default sub-command.
type Parent struct {
	prog        string
	description string

	// Default runs when no sub-command token is given.
	Default string

	order []string
	subs  map[string]Handler
}

func NewParent(prog, description string) *Parent {
	return &Parent{
		prog:        prog,
		description: description,
		subs:        map[string]Handler{},
	}
}

// Sub registers a sub-handler under name.
func (p *Parent) Sub(name string, h Handler) {
	if _, ok := p.subs[name]; !ok {
		p.order = append(p.order, name)
	}
	p.subs[name] = h
}

func (p *Parent) Prog() string        { return p.prog }
func (p *Parent) Description() string { return p.description }

func (p *Parent) Arguments(ap *argparse.Parser) {
	usage := []string{p.prog + " <command> [<args>]", ""}
	for _, name := range p.order {
		usage = append(usage, text.NameDescription(name, p.subs[name].Description(), text.ColumnOptions{
			Tab:    14,
			Prefix: "  ",
		}))
	}
	ap.SetUsage(strings.Join(usage, "\n"))
	ap.AddPositional("command", argparse.Spec{
		Arity: argparse.Remainder,
		Help:  "Subcommand to run",
	})
}

func (p *Parent) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *Invocation) (string, error) {
	tokens := ns.Strings("command")

	name := p.Default
	if len(tokens) > 0 {
		name, tokens = tokens[0], tokens[1:]
	}
	if name == "" {
		return "> No subcommand specified!", nil
	}

	sub, ok := p.subs[name]
	if !ok {
		return "", &NotFoundError{Path: p.prog + " " + name}
	}

	subNS, _, err := ParserFor(sub).ParseKnownArgs(tokens)
	if err != nil {
		return "", err
	}
	return sub.Execute(ctx, subNS, body, msg, inv)
}

// FormatHelp renders the sub-handler's help when words name one, otherwise
// the parent's own overview.
func (p *Parent) FormatHelp(words []string) string {
	if len(words) > 0 {
		if sub, ok := p.subs[words[0]]; ok {
			return sub.FormatHelp(words[1:])
		}
		return "Invalid command: " + words[0]
	}
	return HelpText(p)
}
