// Package commands implements the bot's built-in command handlers.
package commands

import (
	"fmt"

	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/links"
	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/session"
	"github.com/wardenlabs/warden/internal/settings"
)

// Deps are the shared collaborators handlers are constructed with.
type Deps struct {
	Settings  *settings.Store
	Links     *links.Store
	Sessions  *session.Runtime
	Perms     *permission.Resolver
	Directory platform.Directory

	// Version is the build version shown by info.
	Version string
}

// Register wires every built-in handler into the registry. Handler progs
// carry the prefix so usage and help text show real invocations.
func Register(reg *dispatch.Registry, prefix string, deps Deps) {
	reg.Register("info", NewInfo(prefix+"info", deps.Version))
	reg.Register("help", NewHelp(prefix+"help"))
	reg.Register("ping", NewPing(prefix+"ping"))
	reg.Register("time", NewTime(prefix+"time"))
	reg.Register("say", NewSay(prefix+"say", deps))
	reg.Register("purge", NewPurge(prefix+"purge", deps))
	reg.Register("links", NewLinks(prefix+"links", deps))
	reg.Register("permission", NewPermission(prefix+"permission", deps))
	reg.Register("search", NewSearch(prefix+"search", deps))
	reg.Register("settings", NewSettings(prefix+"settings", deps))
	reg.Register("alias", NewAlias(prefix+"alias", deps))
	reg.Register("sessions", NewSessions(prefix+"sessions", deps))
	reg.Register("echo", NewEcho(prefix+"echo", deps))
}

// command carries the identity every handler shares.
type command struct {
	prog string
	desc string
}

func (c command) Prog() string        { return c.prog }
func (c command) Description() string { return c.desc }

var errNoGuild = fmt.Errorf("this command only works in a guild")

// requireGuild guards guild-scoped handlers.
func requireGuild(msg platform.Message) error {
	if msg.GuildID() == "" {
		return errNoGuild
	}
	return nil
}

// require asserts the caller's level against the guild's configured
// required level for a handler, falling back to the handler default.
func (d Deps) require(msg platform.Message, inv *dispatch.Invocation, handlerName string, fallback int) error {
	required, err := d.Perms.RequiredLevel(msg.GuildID(), handlerName, fallback)
	if err != nil {
		return err
	}
	return permission.Assert(inv.Level.Level, required)
}
