package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/links"
	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/session"
	"github.com/wardenlabs/warden/internal/settings"
	"github.com/wardenlabs/warden/internal/store"
)

type stubMessage struct {
	content string
	guild   string
	channel string
	sent    []string
	deleted []string
	recent  []string
}

func (m *stubMessage) ID() string            { return "m0" }
func (m *stubMessage) Content() string       { return m.content }
func (m *stubMessage) Author() platform.User { return platform.User{ID: "u1", Tag: "alice#1"} }
func (m *stubMessage) GuildID() string       { return m.guild }
func (m *stubMessage) ChannelID() string {
	if m.channel == "" {
		return "c1"
	}
	return m.channel
}
func (m *stubMessage) Timestamp() time.Time                          { return time.Now() }
func (m *stubMessage) Reply(ctx context.Context, text string) error  { return nil }
func (m *stubMessage) Send(ctx context.Context, text string) error {
	m.sent = append(m.sent, text)
	return nil
}
func (m *stubMessage) React(ctx context.Context, emoji string) error { return nil }
func (m *stubMessage) Delete(ctx context.Context) error              { return nil }
func (m *stubMessage) Recent(ctx context.Context, limit int) ([]string, error) {
	if limit > len(m.recent) {
		limit = len(m.recent)
	}
	return m.recent[:limit], nil
}
func (m *stubMessage) BulkDelete(ctx context.Context, ids []string) error {
	m.deleted = append(m.deleted, ids...)
	return nil
}

type stubDirectory struct {
	members map[string]*platform.Member
}

func (d *stubDirectory) Member(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	if m, ok := d.members[userID]; ok {
		return m, nil
	}
	return &platform.Member{User: platform.User{ID: userID, Tag: userID + "#1"}}, nil
}

func (d *stubDirectory) Members(ctx context.Context, guildID string) ([]platform.Member, error) {
	out := make([]platform.Member, 0, len(d.members))
	for _, m := range d.members {
		out = append(out, *m)
	}
	return out, nil
}

func newDeps(t *testing.T) Deps {
	t.Helper()
	db, err := store.Open(t.TempDir(), store.Config{})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	st := settings.New(db)
	return Deps{
		Settings:  st,
		Links:     links.New(db),
		Sessions:  session.NewRuntime(),
		Perms:     permission.NewResolver(st, &stubDirectory{}, "owner#1"),
		Directory: &stubDirectory{},
		Version:   "test",
	}
}

// run parses args against the handler's schema and executes it as the
// dispatcher would, at owner level.
func run(t *testing.T, h dispatch.Handler, msg *stubMessage, args ...string) (string, error) {
	t.Helper()
	ns, _, err := dispatch.ParserFor(h).ParseKnownArgs(args)
	require.NoError(t, err)
	inv := &dispatch.Invocation{
		Level:  permission.Level{Level: permission.OwnerLevel, Reason: "owner"},
		Prefix: "!",
	}
	return h.Execute(context.Background(), ns, msg.content, msg, inv)
}

func guildMsg(body string) *stubMessage {
	return &stubMessage{content: body, guild: "g1"}
}

func TestSettings_SetAndList(t *testing.T) {
	deps := newDeps(t)
	h := NewSettings("!settings", deps)

	ns, _, err := dispatch.ParserFor(h).ParseKnownArgs([]string{"set", "permissions.moderatorRoles", "Mods"})
	require.NoError(t, err)
	inv := &dispatch.Invocation{Level: permission.Level{Level: 10, Reason: "owner"}}
	out, err := h.Execute(context.Background(), ns, "", guildMsg(""), inv)
	require.NoError(t, err)
	assert.Contains(t, out, "> Set `permissions.moderatorRoles` to `[\"Mods\"]`")

	ns, _, err = dispatch.ParserFor(h).ParseKnownArgs(nil)
	require.NoError(t, err)
	out, err = h.Execute(context.Background(), ns, "", guildMsg(""), inv)
	require.NoError(t, err)
	assert.Contains(t, out, "permissions.moderatorRoles")
	assert.Contains(t, out, `["Mods"]`)
}

func TestSettings_InsertRemoveUnset(t *testing.T) {
	deps := newDeps(t)
	h := NewSettings("!settings", deps)
	msg := guildMsg("")

	out, err := run(t, h, msg, "append", "colors", "red", "blue")
	require.NoError(t, err)
	assert.Contains(t, out, "> Inserted `2` values to `colors` at the end.")

	out, err = run(t, h, msg, "prepend", "colors", "green")
	require.NoError(t, err)
	assert.Contains(t, out, "> Inserted one value to `colors` at index `0`.")

	values, err := deps.Settings.Get("g1", "colors")
	require.NoError(t, err)
	assert.Equal(t, []string{"green", "red", "blue"}, values)

	// duplicates are dropped before insertion
	out, err = run(t, h, msg, "append", "colors", "red")
	require.NoError(t, err)
	assert.Contains(t, out, "> No values inserted!")

	out, err = run(t, h, msg, "remove", "colors", "green")
	require.NoError(t, err)
	assert.Contains(t, out, "> Removed the values `[\"green\"]` from `colors`!")

	out, err = run(t, h, msg, "unset", "colors")
	require.NoError(t, err)
	assert.Contains(t, out, "> Removed key `colors`")

	values, err = deps.Settings.Get("g1", "colors")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSettings_RequiresGuild(t *testing.T) {
	deps := newDeps(t)
	h := NewSettings("!settings", deps)

	_, err := run(t, h, &stubMessage{}, "set", "k", "v")
	assert.ErrorIs(t, err, errNoGuild)
}

func TestSettings_UpdateRequiresLevel(t *testing.T) {
	deps := newDeps(t)
	h := NewSettings("!settings", deps)

	ns, _, err := dispatch.ParserFor(h).ParseKnownArgs([]string{"set", "k", "v"})
	require.NoError(t, err)
	inv := &dispatch.Invocation{Level: permission.Level{Level: 5, Reason: "moderator"}}
	_, err = h.Execute(context.Background(), ns, "", guildMsg(""), inv)

	var denied *permission.Error
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, settingsUpdateDefaultLevel, denied.Required)
}

func TestLinks_AddListRemove(t *testing.T) {
	deps := newDeps(t)
	h := NewLinks("!links", deps)

	msg := guildMsg("https://example.com/a\n\nhttps://example.com/b\n")
	out, err := run(t, h, msg, "add")
	require.NoError(t, err)
	assert.Contains(t, out, "> Successfully added 2 links!")

	out, err = run(t, h, guildMsg(""), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "> Links for channel <#c1>:")
	assert.Contains(t, out, "`[00]` https://example.com/a")
	assert.Contains(t, out, "`[01]` https://example.com/b")

	out, err = run(t, h, guildMsg(""), "remove", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "> Successfully removed 1 link at index `0`")

	list, err := deps.Links.Get("g1", "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b"}, list.Lines)
}

func TestLinks_EmptyChannel(t *testing.T) {
	deps := newDeps(t)
	h := NewLinks("!links", deps)

	out, err := run(t, h, guildMsg(""), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "> No Links for channel <#c1>")
}

func TestAlias_SetListRemove(t *testing.T) {
	deps := newDeps(t)
	h := NewAlias("!alias", deps)

	out, err := run(t, h, guildMsg(""), "p", "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "> Set alias `p` to `[\"ping\"]`")

	values, err := deps.Settings.Get("g1", dispatch.AliasPrefix+".p")
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, values)

	out, err = run(t, h, guildMsg(""))
	require.NoError(t, err)
	assert.Contains(t, out, "p")
	assert.Contains(t, out, `"ping"`)

	out, err = run(t, h, guildMsg(""), "-r", "p")
	require.NoError(t, err)
	assert.Contains(t, out, "> Alias deleted: `p`")

	out, err = run(t, h, guildMsg(""), "-r", "p")
	require.NoError(t, err)
	assert.Contains(t, out, "> Alias does not exist: `p`")
}

func TestAlias_BlacklistedName(t *testing.T) {
	h := NewAlias("!alias", newDeps(t))

	_, _, err := dispatch.ParserFor(h).ParseKnownArgs([]string{"command", "ping"})
	var pe *argparse.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Msg, "Not allowed!")
}

func TestHelp_ListsRegisteredCommands(t *testing.T) {
	deps := newDeps(t)
	reg := dispatch.NewRegistry()
	Register(reg, "!", deps)

	h, ok := reg.Get("help")
	require.True(t, ok)

	ns, _, err := dispatch.ParserFor(h).ParseKnownArgs(nil)
	require.NoError(t, err)
	inv := &dispatch.Invocation{
		Level:    permission.Level{Level: 0},
		Prefix:   "!",
		Registry: reg,
	}
	out, err := h.Execute(context.Background(), ns, "", guildMsg(""), inv)
	require.NoError(t, err)
	assert.Contains(t, out, "Available commands:")
	assert.Contains(t, out, "!settings")
	assert.Contains(t, out, "!links")
}

func TestInfo_ShowsVersion(t *testing.T) {
	h := NewInfo("!info", "1.2.3")

	out, err := run(t, h, guildMsg(""))
	require.NoError(t, err)
	assert.Contains(t, out, "Version `1.2.3`")
}

func TestSay_SendsWordsAsBot(t *testing.T) {
	deps := newDeps(t)
	h := NewSay("!say", deps)

	msg := guildMsg("")
	out, err := run(t, h, msg, "hello", "there")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, []string{"hello there"}, msg.sent)
}
