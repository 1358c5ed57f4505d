// Package argparse is a declarative command-argument parser. Handlers
// register flags and positionals with arities and converters; parsing never
// writes output or exits, it returns typed errors (ParseError) or the
// HelpError signal for the dispatcher to render.
package argparse

import (
	"errors"
	"strconv"
	"strings"
)

// Arity describes how many tokens an argument consumes.
type Arity int

const (
	// One consumes exactly one token (required).
	One Arity = iota
	// Optional consumes one token if available.
	Optional
	// ZeroOrMore consumes any number of tokens, leaving enough for
	// required positionals declared after it.
	ZeroOrMore
	// Remainder consumes every remaining token, flag-like ones included.
	Remainder
	// Exact consumes exactly Spec.Count tokens.
	Exact
)

// Spec declares one argument.
type Spec struct {
	// Dest is the namespace key; defaults to the positional name or the
	// long flag without dashes.
	Dest      string
	Arity     Arity
	Count     int
	Type      Converter
	Default   any
	Help      string
	StoreTrue bool
}

type argument struct {
	spec       Spec
	flags      []string
	name       string
	positional bool
}

func (a *argument) dest() string {
	if a.spec.Dest != "" {
		return a.spec.Dest
	}
	return a.name
}

func (a *argument) display() string {
	if a.positional {
		return a.name
	}
	return strings.Join(a.flags, ", ")
}

func (a *argument) multi() bool {
	switch a.spec.Arity {
	case ZeroOrMore, Remainder, Exact:
		return true
	}
	return false
}

// Parser parses tokens against a declared argument schema.
type Parser struct {
	Prog        string
	Description string
	// Owner renders help when -h/--help is hit; usually the handler that
	// built this parser.
	Owner HelpRenderer

	usage   string
	addHelp bool
	opts    []*argument
	pos     []*argument
	byFlag  map[string]*argument
}

// New builds a parser with the implicit -h/--help flag.
func New(prog, description string) *Parser {
	return &Parser{
		Prog:        prog,
		Description: description,
		addHelp:     true,
		byFlag:      map[string]*argument{},
	}
}

// SetUsage overrides the generated usage block.
func (p *Parser) SetUsage(usage string) { p.usage = usage }

// AddFlag registers an optional argument reachable through the given flags
// (e.g. "-p", "--page").
func (p *Parser) AddFlag(spec Spec, flags ...string) {
	a := &argument{spec: spec, flags: flags}
	if a.spec.Dest == "" {
		for _, f := range flags {
			name := strings.TrimLeft(f, "-")
			if len(name) > len(a.name) {
				a.name = name
			}
		}
	} else {
		a.name = a.spec.Dest
	}
	p.opts = append(p.opts, a)
	for _, f := range flags {
		p.byFlag[f] = a
	}
}

// AddPositional registers a positional argument. Declaration order is
// consumption order.
func (p *Parser) AddPositional(name string, spec Spec) {
	p.pos = append(p.pos, &argument{spec: spec, name: name, positional: true})
}

// ParseKnownArgs parses tokens into a Namespace, returning tokens it could
// not place. Unknown flag-like tokens are left over, not errors. A
// requested -h/--help aborts parsing with a HelpError carrying the tokens
// after the flag.
func (p *Parser) ParseKnownArgs(tokens []string) (Namespace, []string, error) {
	ns := Namespace{}
	for _, a := range append(append([]*argument{}, p.opts...), p.pos...) {
		switch {
		case a.spec.StoreTrue:
			ns[a.dest()] = false
		case a.multi():
			if a.spec.Default != nil {
				ns[a.dest()] = a.spec.Default
			} else {
				ns[a.dest()] = []any{}
			}
		default:
			ns[a.dest()] = a.spec.Default
		}
	}

	var queue []string
	var leftover []string
	remainderAt := p.remainderCapacity()
	remainderStarted := false

	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		// The remainder begins at its first value token; flags before
		// that (like a leading -h) still parse normally.
		if remainderAt >= 0 && len(queue) >= remainderAt && (remainderStarted || !looksLikeFlag(tok)) {
			remainderStarted = true
			queue = append(queue, tok)
			i++
			continue
		}

		if p.addHelp && (tok == "-h" || tok == "--help") {
			return nil, nil, &HelpError{Renderer: p.Owner, Words: tokens[i+1:]}
		}

		if a, ok := p.byFlag[tok]; ok {
			if a.spec.StoreTrue {
				ns[a.dest()] = true
				i++
				continue
			}
			if i+1 >= len(tokens) {
				return nil, nil, Errorf("argument %s: expected one value", a.display())
			}
			v, err := p.convert(a, tokens[i+1])
			if err != nil {
				return nil, nil, err
			}
			ns[a.dest()] = v
			i += 2
			continue
		}

		if looksLikeFlag(tok) {
			leftover = append(leftover, tok)
			i++
			continue
		}

		queue = append(queue, tok)
		i++
	}

	rest, err := p.fillPositionals(ns, queue)
	if err != nil {
		return nil, nil, err
	}
	return ns, append(leftover, rest...), nil
}

// remainderCapacity returns how many positional tokens precede the
// Remainder argument, or -1 when the schema has none.
func (p *Parser) remainderCapacity() int {
	capacity := 0
	for _, a := range p.pos {
		switch a.spec.Arity {
		case Remainder:
			return capacity
		case One, Optional:
			capacity++
		case Exact:
			capacity += a.spec.Count
		case ZeroOrMore:
			return -1
		}
	}
	return -1
}

func (p *Parser) fillPositionals(ns Namespace, queue []string) ([]string, error) {
	requiredAfter := func(idx int) int {
		n := 0
		for _, a := range p.pos[idx+1:] {
			switch a.spec.Arity {
			case One:
				n++
			case Exact:
				n += a.spec.Count
			}
		}
		return n
	}

	for idx, a := range p.pos {
		switch a.spec.Arity {
		case One:
			if len(queue) == 0 {
				return nil, Errorf("the following argument is required: %s", a.name)
			}
			v, err := p.convert(a, queue[0])
			if err != nil {
				return nil, err
			}
			ns[a.dest()] = v
			queue = queue[1:]

		case Optional:
			if len(queue) > requiredAfter(idx) && len(queue) > 0 {
				v, err := p.convert(a, queue[0])
				if err != nil {
					return nil, err
				}
				ns[a.dest()] = v
				queue = queue[1:]
			}

		case Exact:
			if len(queue) < a.spec.Count {
				return nil, Errorf("argument %s: expected %d values", a.name, a.spec.Count)
			}
			vals, err := p.convertAll(a, queue[:a.spec.Count])
			if err != nil {
				return nil, err
			}
			ns[a.dest()] = vals
			queue = queue[a.spec.Count:]

		case ZeroOrMore:
			take := len(queue) - requiredAfter(idx)
			if take < 0 {
				take = 0
			}
			vals, err := p.convertAll(a, queue[:take])
			if err != nil {
				return nil, err
			}
			ns[a.dest()] = vals
			queue = queue[take:]

		case Remainder:
			vals, err := p.convertAll(a, queue)
			if err != nil {
				return nil, err
			}
			ns[a.dest()] = vals
			queue = nil
		}
	}
	return queue, nil
}

func (p *Parser) convert(a *argument, raw string) (any, error) {
	conv := a.spec.Type
	if conv == nil {
		conv = String
	}
	v, err := conv(raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, Errorf("argument %s: %s", a.display(), pe.Msg)
		}
		return nil, Errorf("argument %s: %v", a.display(), err)
	}
	return v, nil
}

func (p *Parser) convertAll(a *argument, raws []string) ([]any, error) {
	vals := make([]any, 0, len(raws))
	for _, raw := range raws {
		v, err := p.convert(a, raw)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// looksLikeFlag reports whether tok is an unknown option rather than a
// value. Negative numbers are values.
func looksLikeFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}
