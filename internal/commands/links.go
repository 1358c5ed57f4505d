package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/text"
)

const linksUpdateDefaultLevel = 5

// NewLinks builds the links parent with list, add and remove sub-commands.
func NewLinks(prog string, deps Deps) *dispatch.Parent {
	p := dispatch.NewParent(prog, "Manage Links for the current Channel!")
	p.Default = "list"
	p.Sub("list", &linksList{
		command: command{prog: prog + " list", desc: "List all Links for the current Channel."},
		deps:    deps,
	})
	p.Sub("add", &linksAdd{
		command: command{prog: prog + " add", desc: "Add Links to the current Channel."},
		deps:    deps,
	})
	p.Sub("remove", &linksRemove{
		command: command{prog: prog + " remove", desc: "Remove Links from the current Channel."},
		deps:    deps,
	})
	return p
}

type linksList struct {
	command
	deps Deps
}

func (h *linksList) Arguments(p *argparse.Parser) {}

func (h *linksList) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}

	list, err := h.deps.Links.Get(msg.GuildID(), msg.ChannelID())
	if err != nil {
		return "", err
	}
	if len(list.Lines) == 0 {
		return text.Mention(msg.Author().ID,
			fmt.Sprintf("> No Links for channel <#%s>", msg.ChannelID())), nil
	}

	lines := make([]string, len(list.Lines))
	for i, line := range list.Lines {
		lines[i] = fmt.Sprintf("`[%02d]` %s", i, line)
	}
	return text.Mention(msg.Author().ID, fmt.Sprintf(
		"> Links for channel <#%s>:\n%s", msg.ChannelID(), strings.Join(lines, "\n"))), nil
}

func (h *linksList) FormatHelp(words []string) string { return dispatch.HelpText(h) }

type linksAdd struct {
	command
	deps Deps
}

func (h *linksAdd) Arguments(p *argparse.Parser) {
	p.AddPositional("index", argparse.Spec{
		Arity:   argparse.Optional,
		Type:    argparse.Int,
		Default: -1,
		Help:    "Where to insert the links; -1 appends, 0 prepends.",
	})
}

func (h *linksAdd) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "links.update", linksUpdateDefaultLevel); err != nil {
		return "", err
	}

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	added, err := h.deps.Links.InsertLines(msg.GuildID(), msg.ChannelID(), lines, ns.Int("index", -1))
	if err != nil {
		return "", err
	}
	if len(added) == 0 {
		return text.Mention(msg.Author().ID, "> No links supplied!"), nil
	}
	return text.Mention(msg.Author().ID, fmt.Sprintf(
		"> Successfully added %d %s!", len(added), text.SingularPlural(len(added), "link", ""))), nil
}

func (h *linksAdd) FormatHelp(words []string) string { return dispatch.HelpText(h) }

type linksRemove struct {
	command
	deps Deps
}

func (h *linksRemove) Arguments(p *argparse.Parser) {
	p.AddPositional("indices", argparse.Spec{
		Arity: argparse.Remainder,
		Type:  argparse.NumberRange(),
		Help:  "Indices of the links to remove.",
	})
}

func (h *linksRemove) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "links.update", linksUpdateDefaultLevel); err != nil {
		return "", err
	}

	removed, err := h.deps.Links.RemoveLines(msg.GuildID(), msg.ChannelID(), ns.Ints("indices"))
	if err != nil {
		return "", err
	}
	if len(removed) == 0 {
		return text.Mention(msg.Author().ID, "> No valid indices supplied!"), nil
	}

	rendered := make([]string, len(removed))
	for i, idx := range removed {
		rendered[i] = strconv.Itoa(idx)
	}
	return text.Mention(msg.Author().ID, fmt.Sprintf(
		"> Successfully removed %d %s at %s `%s`",
		len(removed),
		text.SingularPlural(len(removed), "link", ""),
		text.SingularPlural(len(removed), "index", "indices"),
		strings.Join(rendered, ", "))), nil
}

func (h *linksRemove) FormatHelp(words []string) string { return dispatch.HelpText(h) }
