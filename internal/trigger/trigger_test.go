package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/settings"
	"github.com/wardenlabs/warden/internal/store"
)

type stubMessage struct {
	content   string
	guild     string
	reactions []string
}

func (m *stubMessage) ID() string                                   { return "1" }
func (m *stubMessage) Content() string                              { return m.content }
func (m *stubMessage) Author() platform.User                        { return platform.User{ID: "u1", Tag: "alice#1"} }
func (m *stubMessage) GuildID() string                              { return m.guild }
func (m *stubMessage) ChannelID() string                            { return "c1" }
func (m *stubMessage) Timestamp() time.Time                         { return time.Now() }
func (m *stubMessage) Reply(ctx context.Context, text string) error { return nil }
func (m *stubMessage) Send(ctx context.Context, text string) error  { return nil }
func (m *stubMessage) React(ctx context.Context, emoji string) error {
	m.reactions = append(m.reactions, emoji)
	return nil
}
func (m *stubMessage) Delete(ctx context.Context) error { return nil }
func (m *stubMessage) Recent(ctx context.Context, limit int) ([]string, error) {
	return nil, nil
}
func (m *stubMessage) BulkDelete(ctx context.Context, ids []string) error { return nil }

func newEngine(t *testing.T) (*Engine, *settings.Store) {
	t.Helper()
	db, err := store.Open(t.TempDir(), store.Config{})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	st := settings.New(db)
	return New(st), st
}

func TestHandleMessage_ReactsOnMatch(t *testing.T) {
	e, st := newEngine(t)
	require.NoError(t, st.Overwrite("g1", KeyReactPrefix+"pizza", []string{"🍕"}))

	msg := &stubMessage{content: "who wants PIZZA tonight", guild: "g1"}
	require.NoError(t, e.HandleMessage(context.Background(), msg))
	assert.Equal(t, []string{"🍕"}, msg.reactions)
}

func TestHandleMessage_NoMatchNoReaction(t *testing.T) {
	e, st := newEngine(t)
	require.NoError(t, st.Overwrite("g1", KeyReactPrefix+"pizza", []string{"🍕"}))

	msg := &stubMessage{content: "nothing to see", guild: "g1"}
	require.NoError(t, e.HandleMessage(context.Background(), msg))
	assert.Empty(t, msg.reactions)
}

func TestHandleMessage_FirstRuleOnly(t *testing.T) {
	e, st := newEngine(t)
	require.NoError(t, st.Overwrite("g1", KeyReactPrefix+"cat", []string{"🐱"}))
	require.NoError(t, st.Overwrite("g1", KeyReactPrefix+"dog", []string{"🐶"}))

	msg := &stubMessage{content: "cat and dog", guild: "g1"}
	require.NoError(t, e.HandleMessage(context.Background(), msg))
	require.Len(t, msg.reactions, 1)
}

func TestHandleMessage_AllEmojisOfRule(t *testing.T) {
	e, st := newEngine(t)
	require.NoError(t, st.Overwrite("g1", KeyReactPrefix+"party", []string{"🎉", "🥳"}))

	msg := &stubMessage{content: "party time", guild: "g1"}
	require.NoError(t, e.HandleMessage(context.Background(), msg))
	assert.Equal(t, []string{"🎉", "🥳"}, msg.reactions)
}

func TestHandleMessage_DisabledGuild(t *testing.T) {
	e, st := newEngine(t)
	require.NoError(t, st.Overwrite("g1", KeyReactPrefix+"pizza", []string{"🍕"}))
	require.NoError(t, st.Overwrite("g1", KeyEnabled, []string{"false"}))

	msg := &stubMessage{content: "pizza", guild: "g1"}
	require.NoError(t, e.HandleMessage(context.Background(), msg))
	assert.Empty(t, msg.reactions)
}

func TestHandleMessage_DirectMessageSkipped(t *testing.T) {
	e, st := newEngine(t)
	require.NoError(t, st.Overwrite("g1", KeyReactPrefix+"pizza", []string{"🍕"}))

	msg := &stubMessage{content: "pizza", guild: ""}
	require.NoError(t, e.HandleMessage(context.Background(), msg))
	assert.Empty(t, msg.reactions)
}
