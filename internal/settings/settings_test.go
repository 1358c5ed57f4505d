package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenlabs/warden/internal/store"
)

const guild = "guild-1"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.Open(t.TempDir(), store.Config{})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return New(db)
}

func TestOverwriteAndGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Overwrite(guild, "permissions.moderatorRoles", []string{"Mods", "Admins"}))

	got, err := s.Get(guild, "permissions.moderatorRoles")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mods", "Admins"}, got)

	// overwrite replaces, never merges
	require.NoError(t, s.Overwrite(guild, "permissions.moderatorRoles", []string{"Staff"}))
	got, err = s.Get(guild, "permissions.moderatorRoles")
	require.NoError(t, err)
	assert.Equal(t, []string{"Staff"}, got)
}

func TestOverwrite_EmptyRejected(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Overwrite(guild, "k", nil))
}

func TestGet_AbsentKeyIsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Get(guild, "never.set")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKeyValidation(t *testing.T) {
	s := newTestStore(t)

	var ke *KeyError
	_, err := s.Get(guild, "")
	assert.ErrorAs(t, err, &ke)
	_, err = s.Get(guild, "a..b")
	assert.ErrorAs(t, err, &ke)
	_, err = s.Get(guild, ".lead")
	assert.ErrorAs(t, err, &ke)
	_, err = s.Get(guild, "has\x1fseparator")
	assert.ErrorAs(t, err, &ke)
}

func TestKeyAllowsHash(t *testing.T) {
	s := newTestStore(t)
	key := "permissions.override.alice#1234"

	require.NoError(t, s.Overwrite(guild, key, []string{"7"}))
	values, err := s.Get(guild, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, values)

	names, err := s.Names(guild)
	require.NoError(t, err)
	assert.Contains(t, names, key)
}

func TestInsert_Positions(t *testing.T) {
	s := newTestStore(t)
	key := "list"

	added, err := s.Insert(guild, key, []string{"b", "c"}, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, added)

	// 0 prepends
	_, err = s.Insert(guild, key, []string{"a"}, 0)
	require.NoError(t, err)
	// past the end appends
	_, err = s.Insert(guild, key, []string{"z"}, 99)
	require.NoError(t, err)
	// n splices
	_, err = s.Insert(guild, key, []string{"m"}, 2)
	require.NoError(t, err)

	got, err := s.Get(guild, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "m", "c", "z"}, got)
}

func TestInsert_DeduplicatesAgainstExisting(t *testing.T) {
	s := newTestStore(t)
	key := "list"

	_, err := s.Insert(guild, key, []string{"a", "b"}, -1)
	require.NoError(t, err)

	added, err := s.Insert(guild, key, []string{"b", "c", "c"}, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, added)

	got, _ := s.Get(guild, key)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRemove_ByValue(t *testing.T) {
	s := newTestStore(t)
	key := "list"

	_, err := s.Insert(guild, key, []string{"a", "b", "c"}, -1)
	require.NoError(t, err)

	removed, err := s.Remove(guild, key, []string{"b", "nope"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, removed)

	got, _ := s.Get(guild, key)
	assert.Equal(t, []string{"a", "c"}, got)

	// absent key is a no-op
	removed, err = s.Remove(guild, "other", []string{"x"})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestUnset_Idempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Overwrite(guild, "k", []string{"v"}))

	existed, err := s.Unset(guild, "k")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Unset(guild, "k")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestNames_SortedDotForm(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Overwrite(guild, "b.two", []string{"x"}))
	require.NoError(t, s.Overwrite(guild, "a.one", []string{"y"}))

	names, err := s.Names(guild)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.one", "b.two"}, names)
}

func TestFirstAndFloats(t *testing.T) {
	s := newTestStore(t)

	v, err := s.First(guild, "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	require.NoError(t, s.Overwrite(guild, "nums", []string{"abc", "7", "8"}))

	f, err := s.FirstFloat(guild, "nums", -1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)

	fs, err := s.Floats(guild, "nums")
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 8}, fs)
}

func TestGuildsAreIsolated(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Overwrite("g1", "k", []string{"one"}))
	require.NoError(t, s.Overwrite("g2", "k", []string{"two"}))

	got, _ := s.Get("g1", "k")
	assert.Equal(t, []string{"one"}, got)
	got, _ = s.Get("g2", "k")
	assert.Equal(t, []string{"two"}, got)
}
