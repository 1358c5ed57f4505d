// Package permission resolves a user's numeric permission level (0-10) for
// a guild and guards handlers against callers below a required level.
package permission

import (
	"context"
	"fmt"

	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/settings"
)

// Settings keys.
const (
	KeyModeratorRoles = "permissions.moderatorRoles"
	KeyModeratorLevel = "permissions.moderatorLevel"
	KeyOverride       = "permissions.override"
	// KeyHandlers prefixes the per-command required-level overrides.
	KeyHandlers = "permissions.handlers"
)

const (
	// OwnerLevel is the fixed level of the configured bot owner.
	OwnerLevel = 10
	// MaxOverride caps stored per-user overrides below the owner level.
	MaxOverride = 9

	DefaultModeratorLevel = 5
	DefaultLevel          = 0
)

// Level is a resolved permission level with the rule that produced it.
type Level struct {
	Level  int
	Reason string
}

// Error reports a caller below the required level.
type Error struct {
	Actual   int
	Required int
}

func (e *Error) Error() string {
	return fmt.Sprintf("you do not meet the required permission level (have %d, need %d)",
		e.Actual, e.Required)
}

// Assert returns an *Error when actual < required.
func Assert(actual, required int) error {
	if actual < required {
		return &Error{Actual: actual, Required: required}
	}
	return nil
}

// Resolver computes permission levels from guild settings and member roles.
type Resolver struct {
	settings *settings.Store
	dir      platform.Directory
	ownerTag string
}

func NewResolver(st *settings.Store, dir platform.Directory, ownerTag string) *Resolver {
	return &Resolver{settings: st, dir: dir, ownerTag: ownerTag}
}

// Calculate resolves the author's level for the message's guild. Precedence:
// owner tag, stored per-user override, moderator role, default.
func (r *Resolver) Calculate(ctx context.Context, msg platform.Message) (Level, error) {
	author := msg.Author()

	if r.ownerTag != "" && author.Tag == r.ownerTag {
		return Level{Level: OwnerLevel, Reason: "owner"}, nil
	}

	guildID := msg.GuildID()
	if guildID == "" {
		return Level{Level: DefaultLevel, Reason: "default user"}, nil
	}

	member, err := r.dir.Member(ctx, guildID, author.ID)
	if err != nil {
		return Level{}, fmt.Errorf("resolve member %s in guild %s: %w", author.Tag, guildID, err)
	}
	return r.LevelFor(guildID, member)
}

// LevelFor resolves the level of an already-fetched guild member.
func (r *Resolver) LevelFor(guildID string, member *platform.Member) (Level, error) {
	if r.ownerTag != "" && member.Tag == r.ownerTag {
		return Level{Level: OwnerLevel, Reason: "owner"}, nil
	}

	overrideKey := KeyOverride + "." + member.Tag
	if override, err := r.settings.Floats(guildID, overrideKey); err != nil {
		return Level{}, err
	} else if len(override) > 0 {
		level := clampOverride(int(override[0]))
		return Level{Level: level, Reason: "override"}, nil
	}

	modRoles, err := r.settings.Get(guildID, KeyModeratorRoles)
	if err != nil {
		return Level{}, err
	}
	if hasAnyRole(member, modRoles) {
		modLevel, err := r.settings.FirstFloat(guildID, KeyModeratorLevel, DefaultModeratorLevel)
		if err != nil {
			return Level{}, err
		}
		return Level{Level: clampOverride(int(modLevel)), Reason: "moderator"}, nil
	}

	return Level{Level: DefaultLevel, Reason: "default user"}, nil
}

// RequiredLevel returns the required level for a handler, preferring the
// guild's per-command setting over the handler's fallback default.
func (r *Resolver) RequiredLevel(guildID, handlerName string, fallback int) (int, error) {
	if guildID == "" {
		return fallback, nil
	}
	level, err := r.settings.FirstFloat(guildID, KeyHandlers+"."+handlerName, float64(fallback))
	if err != nil {
		return fallback, err
	}
	return int(level), nil
}

func clampOverride(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxOverride {
		return MaxOverride
	}
	return level
}

func hasAnyRole(member *platform.Member, roles []string) bool {
	if member == nil {
		return false
	}
	for _, have := range member.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
