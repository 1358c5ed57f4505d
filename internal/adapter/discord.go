package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenlabs/warden/internal/platform"
)

// DiscordAdapter runs a Discord gateway connection and serves the guild
// member directory from the session state cache.
type DiscordAdapter struct {
	token string
	dg    *discordgo.Session
}

func NewDiscordAdapter(token string) *DiscordAdapter {
	return &DiscordAdapter{token: token}
}

func (a *DiscordAdapter) Name() string {
	return "discord"
}

func (a *DiscordAdapter) Start(ctx context.Context, sink Sink) error {
	dg, err := discordgo.New("Bot " + a.token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	dg.StateEnabled = true

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("discord gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		a.onMessageCreate(ctx, sink, s, m)
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	a.dg = dg
	return nil
}

func (a *DiscordAdapter) Stop(ctx context.Context) error {
	if a.dg == nil {
		return nil
	}
	return a.dg.Close()
}

func (a *DiscordAdapter) onMessageCreate(ctx context.Context, sink Sink, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	msg := &discordMessage{dg: s, m: m.Message}
	out, err := sink.HandleMessage(ctx, msg)
	if err != nil {
		slog.Error("message handling failed", "channel", m.ChannelID, "error", err)
		return
	}
	if out == "" {
		return
	}
	if err := msg.Send(ctx, out); err != nil {
		slog.Error("reply delivery failed", "channel", m.ChannelID, "error", err)
	}
}

// Member resolves through the state cache first, falling back to the REST
// API for members the gateway has not delivered yet.
func (a *DiscordAdapter) Member(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	member, err := a.dg.State.Member(guildID, userID)
	if err != nil {
		member, err = a.dg.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch member %s in guild %s: %w", userID, guildID, err)
		}
	}
	return a.convertMember(guildID, member), nil
}

func (a *DiscordAdapter) Members(ctx context.Context, guildID string) ([]platform.Member, error) {
	guild, err := a.dg.State.Guild(guildID)
	if err == nil && len(guild.Members) > 0 {
		out := make([]platform.Member, 0, len(guild.Members))
		for _, m := range guild.Members {
			out = append(out, *a.convertMember(guildID, m))
		}
		return out, nil
	}

	members, err := a.dg.GuildMembers(guildID, "", 1000, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list members of guild %s: %w", guildID, err)
	}
	out := make([]platform.Member, 0, len(members))
	for _, m := range members {
		out = append(out, *a.convertMember(guildID, m))
	}
	return out, nil
}

// convertMember carries both role ids and resolved role names so settings
// can reference either form.
func (a *DiscordAdapter) convertMember(guildID string, m *discordgo.Member) *platform.Member {
	roles := append([]string(nil), m.Roles...)
	if guild, err := a.dg.State.Guild(guildID); err == nil {
		byID := make(map[string]string, len(guild.Roles))
		for _, r := range guild.Roles {
			byID[r.ID] = r.Name
		}
		for _, id := range m.Roles {
			if name, ok := byID[id]; ok {
				roles = append(roles, name)
			}
		}
	}

	display := m.Nick
	if display == "" {
		display = m.User.GlobalName
	}
	if display == "" {
		display = m.User.Username
	}

	return &platform.Member{
		User:        convertUser(m.User),
		DisplayName: display,
		Roles:       roles,
	}
}

func convertUser(u *discordgo.User) platform.User {
	tag := u.Username
	if u.Discriminator != "" && u.Discriminator != "0" {
		tag += "#" + u.Discriminator
	}
	return platform.User{
		ID:       u.ID,
		Username: u.Username,
		Tag:      tag,
	}
}

// discordMessage adapts one gateway message to the platform surface.
type discordMessage struct {
	dg *discordgo.Session
	m  *discordgo.Message
}

func (d *discordMessage) ID() string      { return d.m.ID }
func (d *discordMessage) Content() string { return d.m.Content }

func (d *discordMessage) Author() platform.User {
	return convertUser(d.m.Author)
}

func (d *discordMessage) GuildID() string   { return d.m.GuildID }
func (d *discordMessage) ChannelID() string { return d.m.ChannelID }

func (d *discordMessage) Timestamp() time.Time {
	return d.m.Timestamp
}

func (d *discordMessage) Reply(ctx context.Context, text string) error {
	_, err := d.dg.ChannelMessageSendReply(d.m.ChannelID, text, d.m.Reference(), discordgo.WithContext(ctx))
	return err
}

func (d *discordMessage) Send(ctx context.Context, text string) error {
	_, err := d.dg.ChannelMessageSend(d.m.ChannelID, text, discordgo.WithContext(ctx))
	return err
}

func (d *discordMessage) React(ctx context.Context, emoji string) error {
	return d.dg.MessageReactionAdd(d.m.ChannelID, d.m.ID, emoji, discordgo.WithContext(ctx))
}

func (d *discordMessage) Delete(ctx context.Context) error {
	return d.dg.ChannelMessageDelete(d.m.ChannelID, d.m.ID, discordgo.WithContext(ctx))
}

func (d *discordMessage) Recent(ctx context.Context, limit int) ([]string, error) {
	messages, err := d.dg.ChannelMessages(d.m.ChannelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch recent messages: %w", err)
	}
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (d *discordMessage) BulkDelete(ctx context.Context, ids []string) error {
	return d.dg.ChannelMessagesBulkDelete(d.m.ChannelID, ids, discordgo.WithContext(ctx))
}
