// Package platform defines the minimal capability surface the core requires
// from the message platform. Transport adapters implement these interfaces;
// the core never touches the platform client directly.
package platform

import (
	"context"
	"time"
)

// User identifies a platform account. Tag is the globally unique handle
// (e.g. "alice#1234"), Username the plain display form.
type User struct {
	ID       string
	Username string
	Tag      string
}

// Member is a user's membership in a guild, including the role names the
// permission resolver matches against.
type Member struct {
	User
	DisplayName string
	Roles       []string
}

// Message is one inbound text message plus the reply surface for it.
// GuildID is empty for direct messages.
type Message interface {
	ID() string
	Content() string
	Author() User
	GuildID() string
	ChannelID() string
	Timestamp() time.Time

	// Reply sends text to the message's channel, addressed to the author.
	Reply(ctx context.Context, text string) error
	// Send sends text to the message's channel without addressing anyone.
	Send(ctx context.Context, text string) error
	React(ctx context.Context, emoji string) error
	Delete(ctx context.Context) error

	// Recent returns the ids of up to limit most recent messages in the
	// channel, newest first, including this message.
	Recent(ctx context.Context, limit int) ([]string, error)
	BulkDelete(ctx context.Context, ids []string) error
}

// Directory resolves guild membership. Adapters back it with the platform's
// member cache.
type Directory interface {
	// Member returns the member record for a user in a guild.
	Member(ctx context.Context, guildID, userID string) (*Member, error)
	// Members lists all members of a guild.
	Members(ctx context.Context, guildID string) ([]Member, error)
}
