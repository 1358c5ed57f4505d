package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/text"
)

// permissionUpdateLevel guards override changes; only the owner qualifies.
const permissionUpdateLevel = 10

// Permission views and manages per-user permission overrides.
type Permission struct {
	command
	deps Deps
}

func NewPermission(prog string, deps Deps) *Permission {
	return &Permission{command: command{prog: prog, desc: "Handle User Permission Level"}, deps: deps}
}

func (h *Permission) Arguments(p *argparse.Parser) {
	p.AddFlag(argparse.Spec{
		StoreTrue: true,
		Help:      "Remove Permission Override.",
	}, "-r", "--reset")
	p.AddPositional("user", argparse.Spec{
		Arity: argparse.Optional,
		Help:  "Specify the user, defaults to you.",
	})
	p.AddPositional("level", argparse.Spec{
		Arity: argparse.Optional,
		Type:  argparse.NumberRange(0, permission.MaxOverride),
		Help:  fmt.Sprintf("Override the User's Permission Level. (0-%d)", permission.MaxOverride),
	})
}

func (h *Permission) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}

	guildID := msg.GuildID()
	author := msg.Author().ID
	userTerm := ns.String("user")
	reset := ns.Bool("reset")
	hasLevel := ns["level"] != nil

	target, err := h.target(ctx, msg, userTerm)
	if err != nil {
		return "", err
	}
	if target == nil {
		return text.Mention(author, fmt.Sprintf("> No member found for `%s`", userTerm)), nil
	}

	if !hasLevel && !reset {
		level, err := h.deps.Perms.LevelFor(guildID, target)
		if err != nil {
			return "", err
		}
		whose := "Your"
		if userTerm != "" {
			whose = target.DisplayName + "'s"
		}
		return text.Mention(author, fmt.Sprintf(
			"> %s permission level is: `%d`, reason: `%s`", whose, level.Level, level.Reason)), nil
	}

	if err := permission.Assert(inv.Level.Level, permissionUpdateLevel); err != nil {
		return "", err
	}

	overrideKey := permission.KeyOverride + "." + target.Tag

	if reset {
		if _, err := h.deps.Settings.Unset(guildID, overrideKey); err != nil {
			return "", err
		}
		return text.Mention(author, fmt.Sprintf(
			"> Permission override for %s removed.", target.DisplayName)), nil
	}

	level := ns.Int("level", 0)
	if err := h.deps.Settings.Overwrite(guildID, overrideKey, []string{strconv.Itoa(level)}); err != nil {
		return "", err
	}
	return text.Mention(author, fmt.Sprintf(
		"> Permission override for %s set to: `%d`", target.DisplayName, level)), nil
}

// target resolves the named member, or the author when term is empty.
func (h *Permission) target(ctx context.Context, msg platform.Message, term string) (*platform.Member, error) {
	if term == "" {
		return h.deps.Directory.Member(ctx, msg.GuildID(), msg.Author().ID)
	}
	return bestMember(ctx, h.deps.Directory, msg.GuildID(), term, 0.5)
}

func (h *Permission) FormatHelp(words []string) string { return dispatch.HelpText(h) }
