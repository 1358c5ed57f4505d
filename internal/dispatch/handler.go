// Package dispatch routes parsed messages to command handlers: registry
// lookup, alias substitution, permission resolution, argument parsing, and
// uniform rendering of the error taxonomy into reply text.
package dispatch

import (
	"context"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/platform"
)

// Handler executes one command. Prog is the full invocation path including
// the prefix ("!links add"); it seeds usage and help text.
type Handler interface {
	argparse.HelpRenderer

	Prog() string
	Description() string
	// Arguments declares the handler's schema on a fresh parser.
	Arguments(p *argparse.Parser)
	// Execute runs the command and returns the reply text, already
	// formatted for the platform. An empty string means no reply.
	Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *Invocation) (string, error)
}

// Invocation is the per-dispatch context passed to handlers.
type Invocation struct {
	// ID tags every log line of one dispatch.
	ID          string
	Level       permission.Level
	CommandLine string
	Prefix      string
	Registry    *Registry

	// Handle re-enters the dispatcher with substitute tokens, used by
	// handlers that execute other commands.
	Handle func(ctx context.Context, tokens []string, body string, msg platform.Message) (string, error)
}

// ParserFor builds the handler's argument parser with the handler installed
// as its help renderer.
func ParserFor(h Handler) *argparse.Parser {
	p := argparse.New(h.Prog(), h.Description())
	p.Owner = h
	h.Arguments(p)
	return p
}

// HelpText renders a handler's plain help text. Leaf handlers implement
// FormatHelp with it.
func HelpText(h Handler) string {
	return ParserFor(h).Help()
}

// Registry is the immutable name to handler mapping, preserving
// registration order for listings.
type Registry struct {
	names    []string
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

func (r *Registry) Register(name string, h Handler) {
	if _, ok := r.handlers[name]; !ok {
		r.names = append(r.names, name)
	}
	r.handlers[name] = h
}

func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered command names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
