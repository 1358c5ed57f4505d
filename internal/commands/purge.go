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
	purgeDefaultLevel = 9
	purgeMax          = 100
)

// Purge bulk-deletes the most recent messages in the channel.
type Purge struct {
	command
	deps Deps
}

func NewPurge(prog string, deps Deps) *Purge {
	return &Purge{command: command{prog: prog, desc: "Bulk-delete messages"}, deps: deps}
}

func (h *Purge) Arguments(p *argparse.Parser) {
	p.AddPositional("amount", argparse.Spec{
		Arity: argparse.Optional,
		Type:  argparse.Int,
		Help:  "How many messages to delete, excluding the command itself",
	})
}

func (h *Purge) Execute(ctx context.Context, ns argparse.Namespace, body string, msg platform.Message, inv *dispatch.Invocation) (string, error) {
	if err := requireGuild(msg); err != nil {
		return "", err
	}
	if err := h.deps.require(msg, inv, "purge", purgeDefaultLevel); err != nil {
		return "", err
	}

	amount := ns.Int("amount", 0)
	if amount < 1 || amount > purgeMax {
		return text.Mention(msg.Author().ID, fmt.Sprintf(
			"> Please provide a number between 1 and %d for the number of messages to delete", purgeMax)), nil
	}

	// One extra covers the invoking message itself.
	ids, err := msg.Recent(ctx, amount+1)
	if err != nil {
		return "", fmt.Errorf("fetch recent messages: %w", err)
	}
	if err := msg.BulkDelete(ctx, ids); err != nil {
		return "", fmt.Errorf("couldn't delete messages because of: %w", err)
	}
	return "", nil
}

func (h *Purge) FormatHelp(words []string) string { return dispatch.HelpText(h) }
