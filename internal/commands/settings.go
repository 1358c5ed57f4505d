package commands

import (
	"context"
	"fmt"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/text"
)

const (
	settingsViewDefaultLevel   = 5
	settingsUpdateDefaultLevel = 9
)

// settingsOp is one of the list-mutation modes.
type settingsOp string

const (
	opSet     settingsOp = "set"
	opInsert  settingsOp = "insert"
	opPrepend settingsOp = "prepend"
	opAppend  settingsOp = "append"
	opRemove  settingsOp = "remove"
	opUnset   settingsOp = "unset"
)

var settingsOpDescriptions = map[settingsOp]string{
	opSet:     "Set the value or values.",
	opInsert:  "Insert values at specified index",
	opPrepend: "Insert at beginning.",
	opAppend:  "Insert at end.",
	opRemove:  "Remove specified values.",
	opUnset:   "Remove the key entirely.",
}

// NewSettings builds the settings parent: a list sub-command plus one
// sub-command per mutation mode.
func NewSettings(prog string, deps Deps) *dispatch.Parent {
	p := dispatch.NewParent(prog, "Manage Settings for this Guild.")
	p.Default = "list"
	p.Sub("list", &settingsList{
		command: command{prog: prog + " list", desc: "List settings."},
		deps:    deps,
	})
	for _, op := range []settingsOp{opSet, opInsert, opPrepend, opAppend, opRemove, opUnset} {
		p.Sub(string(op), &settingsUpdate{
			command: command{prog: prog + " " + string(op), desc: settingsOpDescriptions[op]},
			deps:    deps,
			op:      op,
		})
	}
	return p
}

type settingsList struct {
	command
	deps Deps
}

func (h *settingsList) Arguments(p *argparse.Parser) {
	p.AddFlag(argparse.Spec{
		Default: 1.0,
		Type:    argparse.NumberRange(1),
		Help:    "What page of settings to show.",
	}, "-p", "--page")
	p.AddFlag(argparse.Spec{
		Dest:    "pageLength",
		Default: 16.0,
		Type:    argparse.NumberRange(1, 64),
		Help:    "How many settings per page to show.",
	}, "-l", "--length")
	p.AddPositional("searchTerm", argparse.Spec{
		Arity: argparse.Remainder,
		Help:  "Search for key names",
	})
}

func (h *settingsList) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "settings.view", settingsViewDefaultLevel); err != nil {
		return "", err
	}

	names, err := h.deps.Settings.Names(msg.GuildID())
	if err != nil {
		return "", err
	}

	page := ns.Int("page", 1)
	count, paged := text.Page(text.PageRequest{
		Keys:       names,
		Search:     ns.Strings("searchTerm"),
		Page:       page,
		PageLength: ns.Int("pageLength", 16),
		Format: func(key text.RankedKey) string {
			values, err := h.deps.Settings.Get(msg.GuildID(), key.Key)
			if err != nil {
				values = nil
			}
			prefix := ""
			if key.Ranked {
				prefix = fmt.Sprintf("%02d%% ", int(key.Similarity*100+0.5))
			}
			return text.NameDescription(key.Key, text.ArrayToString(values), text.ColumnOptions{
				Tab:       32,
				MaxLength: 96,
				Prefix:    prefix,
			})
		},
	})
	if count == 0 {
		if page == 1 {
			return text.Mention(msg.Author().ID, "> No settings for this Guild!"), nil
		}
		return text.Mention(msg.Author().ID,
			fmt.Sprintf("> No settings for this Guild on page `%d`", page)), nil
	}
	return text.Mention(msg.Author().ID, paged), nil
}

func (h *settingsList) FormatHelp(words []string) string { return dispatch.HelpText(h) }

type settingsUpdate struct {
	command
	deps Deps
	op   settingsOp
}

func (h *settingsUpdate) Arguments(p *argparse.Parser) {
	p.AddPositional("key", argparse.Spec{Help: "Which option to update."})
	if h.op == opInsert {
		p.AddPositional("index", argparse.Spec{
			Type: argparse.NumberRange(),
			Help: "Where to insert the value or values",
		})
	}
	if h.op != opUnset {
		p.AddPositional("values", argparse.Spec{
			Arity: argparse.Remainder,
			Help:  "Value, or values",
		})
	}
}

func (h *settingsUpdate) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "settings.update", settingsUpdateDefaultLevel); err != nil {
		return "", err
	}

	guildID := msg.GuildID()
	key := ns.String("key")
	values := ns.Strings("values")
	author := msg.Author().ID

	switch h.op {
	case opUnset:
		if _, err := h.deps.Settings.Unset(guildID, key); err != nil {
			return "", err
		}
		return text.Mention(author, fmt.Sprintf("> Removed key `%s`", key)), nil

	case opSet:
		if err := h.deps.Settings.Overwrite(guildID, key, values); err != nil {
			return "", err
		}
		return text.Mention(author, fmt.Sprintf(
			"> Set `%s` to `%s`", key, text.ArrayToString(values))), nil

	case opRemove:
		removed, err := h.deps.Settings.Remove(guildID, key, values)
		if err != nil {
			return "", err
		}
		return text.Mention(author, fmt.Sprintf(
			"> Removed the values `%s` from `%s`!", text.ArrayToString(removed), key)), nil
	}

	// Insert family.
	index := -1
	switch h.op {
	case opPrepend:
		index = 0
	case opInsert:
		index = ns.Int("index", -1)
	}

	added, err := h.deps.Settings.Insert(guildID, key, values, index)
	if err != nil {
		return "", err
	}

	where := "the end"
	if index >= 0 {
		where = fmt.Sprintf("index `%d`", index)
	}
	switch len(added) {
	case 0:
		return text.Mention(author, "> No values inserted!"), nil
	case 1:
		return text.Mention(author, fmt.Sprintf("> Inserted one value to `%s` at %s.", key, where)), nil
	default:
		return text.Mention(author, fmt.Sprintf(
			"> Inserted `%d` values to `%s` at %s.", len(added), key, where)), nil
	}
}

func (h *settingsUpdate) FormatHelp(words []string) string { return dispatch.HelpText(h) }
