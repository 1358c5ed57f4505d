package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/session"
	"github.com/wardenlabs/warden/internal/text"
)

const sessionsViewDefaultLevel = 5

// NewSessions builds the sessions parent with its show sub-command.
func NewSessions(prog string, deps Deps) *dispatch.Parent {
	p := dispatch.NewParent(prog, "Manage running sessions")
	p.Default = "show"
	p.Sub("show", &sessionsShow{
		command: command{prog: prog + " show", desc: "List running sessions"},
		deps:    deps,
	})
	return p
}

type sessionsShow struct {
	command
	deps Deps
}

func (h *sessionsShow) Arguments(p *argparse.Parser) {
	p.AddFlag(argparse.Spec{
		Default: 1.0,
		Type:    argparse.NumberRange(1),
		Help:    "What page of sessions to show.",
	}, "-p", "--page")
	p.AddFlag(argparse.Spec{
		Dest:    "pageLength",
		Default: 16.0,
		Type:    argparse.NumberRange(1, 64),
		Help:    "How many sessions per page to show.",
	}, "-l", "--length")
	p.AddPositional("searchTerm", argparse.Spec{
		Arity: argparse.Optional,
		Help:  "Search for a member to list their joined sessions",
	})
}

func (h *sessionsShow) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "sessions.view", sessionsViewDefaultLevel); err != nil {
		return "", err
	}

	page := ns.Int("page", 1)
	pageLength := ns.Int("pageLength", 16)

	if term := ns.String("searchTerm"); term != "" {
		member, err := bestMember(ctx, h.deps.Directory, msg.GuildID(), term, 0.5)
		if err != nil {
			return "", err
		}
		if member != nil {
			return h.memberSessions(msg, member, page, pageLength)
		}
	}

	infos := h.deps.Sessions.List()
	byID := make(map[string]session.Info, len(infos))
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		key := strconv.FormatInt(info.ID, 10)
		byID[key] = info
		keys = append(keys, key)
	}

	count, paged := text.Page(text.PageRequest{
		Keys:       keys,
		Page:       page,
		PageLength: pageLength,
		Format: func(key text.RankedKey) string {
			info := byID[key.Key]
			return text.NameDescription(
				fmt.Sprintf("%s (%s)", info.Name, key.Key),
				info.Description,
				text.ColumnOptions{Tab: 25, MaxLength: 128, Prefix: "  ", MaxLines: 8},
			)
		},
	})
	return h.render(msg, page, count, paged), nil
}

// memberSessions lists the sessions a specific member is joined to.
func (h *sessionsShow) memberSessions(msg platform.Message, member *platform.Member, page, pageLength int) (string, error) {
	var keys []string
	places := map[string]session.Identifier{}
	ids := map[string]session.Info{}

	for _, info := range h.deps.Sessions.List() {
		for _, ident := range info.Members {
			if ident.User == member.ID {
				key := ident.Key()
				keys = append(keys, key)
				places[key] = ident
				ids[key] = info
			}
		}
	}

	count, paged := text.Page(text.PageRequest{
		Keys:       keys,
		Page:       page,
		PageLength: pageLength,
		Format: func(key text.RankedKey) string {
			ident := places[key.Key]
			info := ids[key.Key]
			return text.NameDescription(
				fmt.Sprintf("Guild: %s, Channel: %s", ident.Guild, ident.Channel),
				fmt.Sprintf("%s (%d)\n", info.Name, info.ID),
				text.ColumnOptions{Tab: 4, MaxLength: 128, MaxLines: 8},
			)
		},
	})
	return h.render(msg, page, count, paged), nil
}

func (h *sessionsShow) render(msg platform.Message, page, count int, paged string) string {
	if count == 0 {
		if page == 1 {
			return text.Mention(msg.Author().ID, "> No running sessions for this Guild!")
		}
		return text.Mention(msg.Author().ID,
			fmt.Sprintf("> No running sessions for this Guild on page `%d`", page))
	}
	return text.Mention(msg.Author().ID, paged)
}

func (h *sessionsShow) FormatHelp(words []string) string { return dispatch.HelpText(h) }
