package argparse

import (
	"strings"

	"github.com/wardenlabs/warden/internal/text"
)

// Usage returns the one-line usage string, generated from the schema unless
// overridden with SetUsage.
func (p *Parser) Usage() string {
	if p.usage != "" {
		return p.usage
	}

	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(p.Prog)
	if p.addHelp {
		b.WriteString(" [-h]")
	}
	for _, a := range p.opts {
		b.WriteString(" [")
		b.WriteString(a.flags[0])
		if !a.spec.StoreTrue {
			b.WriteString(" ")
			b.WriteString(metavar(a.name))
		}
		b.WriteString("]")
	}
	for _, a := range p.pos {
		b.WriteString(" ")
		b.WriteString(positionalUsage(a))
	}
	return b.String()
}

// Help renders the full help text: usage, description, then the positional
// and optional argument sections.
func (p *Parser) Help() string {
	var b strings.Builder
	b.WriteString(p.Usage())
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.Description)
		b.WriteString("\n")
	}

	if len(p.pos) > 0 {
		b.WriteString("\npositional arguments:\n")
		for _, a := range p.pos {
			b.WriteString(text.NameDescription(a.name, a.spec.Help, helpColumns))
			b.WriteString("\n")
		}
	}

	b.WriteString("\noptional arguments:\n")
	if p.addHelp {
		b.WriteString(text.NameDescription("-h, --help", "show this help message", helpColumns))
		b.WriteString("\n")
	}
	for _, a := range p.opts {
		name := strings.Join(a.flags, ", ")
		if !a.spec.StoreTrue {
			name += " " + metavar(a.name)
		}
		b.WriteString(text.NameDescription(name, a.spec.Help, helpColumns))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

var helpColumns = text.ColumnOptions{
	Tab:       24,
	MaxLength: 96,
	Prefix:    "  ",
	MinSpace:  2,
}

func metavar(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func positionalUsage(a *argument) string {
	mv := a.name
	switch a.spec.Arity {
	case Optional:
		return "[" + mv + "]"
	case ZeroOrMore, Remainder:
		return "[" + mv + " ...]"
	case Exact:
		parts := make([]string, a.spec.Count)
		for i := range parts {
			parts[i] = mv
		}
		return strings.Join(parts, " ")
	}
	return mv
}
