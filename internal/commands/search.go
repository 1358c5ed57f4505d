package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
)

// Search fuzzily looks up guild members.
type Search struct {
	command
	deps Deps
}

func NewSearch(prog string, deps Deps) *Search {
	return &Search{command: command{prog: prog, desc: "Search for Guild Members"}, deps: deps}
}

func (h *Search) Arguments(p *argparse.Parser) {
	p.AddFlag(argparse.Spec{
		Default: 10.0,
		Type:    argparse.NumberRange(1, 50),
		Help:    "Limit the amount of results",
	}, "-l", "--limit")
	p.AddFlag(argparse.Spec{
		Dest:    "minCertainty",
		Default: 1e-3,
		Type:    argparse.NumberRange(0, 1),
		Help:    "Only show results with a certainty of at least N (0-1)",
	}, "-c", "--min-certainty")
	p.AddFlag(argparse.Spec{
		StoreTrue: true,
		Help:      "Use mentions for search results",
	}, "-m", "--mentions")
	p.AddPositional("user", argparse.Spec{Help: "Search term"})
}

func (h *Search) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}

	matches, err := findMembers(ctx, h.deps.Directory, msg.GuildID(), ns.String("user"), memberSearchOptions{
		maxResults:   ns.Int("limit", 10),
		minCertainty: ns.Float("minCertainty", 1e-3),
	})
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "> No Members found!", nil
	}

	lines := make([]string, len(matches))
	for i, match := range matches {
		name := match.member.DisplayName
		if ns.Bool("mentions") {
			name = "<@" + match.member.ID + ">"
		}
		lines[i] = fmt.Sprintf("`[%02d%%]` %s", int(match.certainty*100+0.5), name)
	}
	return fmt.Sprintf("> Found `%d` Members:\n%s", len(matches), strings.Join(lines, "\n")), nil
}

func (h *Search) FormatHelp(words []string) string { return dispatch.HelpText(h) }
