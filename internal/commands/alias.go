package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/text"
)

// aliasBlacklist names that may never be aliased; aliasing them would make
// the alias machinery itself unreachable.
var aliasBlacklist = []string{"alias", dispatch.AliasBypass}

// Alias views and manages command aliases stored in guild settings.
type Alias struct {
	command
	deps Deps
}

func NewAlias(prog string, deps Deps) *Alias {
	return &Alias{command: command{prog: prog, desc: "View and manage aliases."}, deps: deps}
}

func (h *Alias) Arguments(p *argparse.Parser) {
	p.AddFlag(argparse.Spec{
		StoreTrue: true,
		Help:      "Remove the alias",
	}, "-r", "--remove")
	p.AddFlag(argparse.Spec{
		Default: 1.0,
		Type:    argparse.NumberRange(1),
		Help:    "What page of aliases to show.",
	}, "-p", "--page")
	p.AddFlag(argparse.Spec{
		Dest:    "pageLength",
		Default: 16.0,
		Type:    argparse.NumberRange(1, 64),
		Help:    "How many aliases per page to show.",
	}, "-l", "--length")
	p.AddPositional("name", argparse.Spec{
		Arity: argparse.Optional,
		Type:  aliasName,
		Help:  "The name of the alias.",
	})
	p.AddPositional("value", argparse.Spec{
		Arity: argparse.Remainder,
		Help:  "What to execute instead.",
	})
}

// aliasName rejects names that would shadow the alias machinery.
func aliasName(raw string) (any, error) {
	for _, banned := range aliasBlacklist {
		if raw == banned {
			return nil, argparse.Errorf("Not allowed!")
		}
	}
	return raw, nil
}

func (h *Alias) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}

	guildID := msg.GuildID()
	author := msg.Author().ID
	name := ns.String("name")
	value := ns.Strings("value")

	if ns.Bool("remove") {
		key := dispatch.AliasPrefix + "." + name
		existing, err := h.deps.Settings.Get(guildID, key)
		if err != nil {
			return "", err
		}
		if len(existing) == 0 {
			return text.Mention(author, fmt.Sprintf("> Alias does not exist: `%s`", name)), nil
		}
		if _, err := h.deps.Settings.Unset(guildID, key); err != nil {
			return "", err
		}
		return text.Mention(author, fmt.Sprintf("> Alias deleted: `%s`", name)), nil
	}

	if len(value) > 0 {
		key := dispatch.AliasPrefix + "." + name
		if err := h.deps.Settings.Overwrite(guildID, key, value); err != nil {
			return "", err
		}
		return text.Mention(author, fmt.Sprintf(
			"> Set alias `%s` to `%s`", name, text.ArrayToString(value))), nil
	}

	return h.list(msg, ns, name)
}

func (h *Alias) list(msg platform.Message, ns argparse.Namespace, name string) (string, error) {
	names, err := h.deps.Settings.Names(msg.GuildID())
	if err != nil {
		return "", err
	}
	var keys []string
	for _, key := range names {
		if strings.HasPrefix(key, dispatch.AliasPrefix+".") {
			keys = append(keys, key)
		}
	}

	var search []string
	if name != "" {
		search = []string{dispatch.AliasPrefix + "." + name}
	}

	page := ns.Int("page", 1)
	count, paged := text.Page(text.PageRequest{
		Keys:       keys,
		Search:     search,
		Page:       page,
		PageLength: ns.Int("pageLength", 16),
		Format: func(key text.RankedKey) string {
			value, err := h.deps.Settings.Get(msg.GuildID(), key.Key)
			if err != nil {
				value = nil
			}
			return text.NameDescription(
				strings.TrimPrefix(key.Key, dispatch.AliasPrefix+"."),
				`"`+strings.Join(value, " ")+`"`,
				text.ColumnOptions{Tab: 40, MaxLength: 128},
			)
		},
	})
	if count == 0 {
		if page == 1 {
			return text.Mention(msg.Author().ID, "> No aliases for this Guild!"), nil
		}
		return text.Mention(msg.Author().ID,
			fmt.Sprintf("> No aliases for this Guild on page `%d`", page)), nil
	}
	return text.Mention(msg.Author().ID, paged), nil
}

func (h *Alias) FormatHelp(words []string) string { return dispatch.HelpText(h) }
