// Package settings is the per-guild configuration store. Callers address
// options with dot-separated keys ("permissions.moderatorRoles"); each option
// holds an ordered list of strings. Documents are created on first access and
// every mutation is persisted immediately.
package settings

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/wardenlabs/warden/internal/store"
)

// Collection is the document-store collection backing guild settings.
const Collection = "settings"

// separator replaces dots in stored keys so they never collide with the
// document store's own nested-field addressing. The unit separator cannot
// appear in user tags, so permission override keys stay addressable.
const separator = "\x1f"

// KeyError reports an invalid or unusable settings key.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid settings key: %q", e.Key)
}

type document map[string][]string

// Store reads and mutates guild settings documents.
type Store struct {
	db *store.Store
}

func New(db *store.Store) *Store {
	return &Store{db: db}
}

func checkKey(key string) error {
	if key == "" || strings.Contains(key, separator) {
		return &KeyError{Key: key}
	}
	for _, seg := range strings.Split(key, ".") {
		if seg == "" {
			return &KeyError{Key: key}
		}
	}
	return nil
}

func encodeKey(key string) string { return strings.ReplaceAll(key, ".", separator) }
func decodeKey(key string) string { return strings.ReplaceAll(key, separator, ".") }

// load fetches the guild document, creating an empty one on first access.
func (s *Store) load(guildID string) (document, error) {
	doc := document{}
	ok, err := s.db.Get(Collection, guildID, &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Debug("creating settings document", "guild", guildID)
		if err := s.db.Put(Collection, guildID, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *Store) save(guildID string, doc document) error {
	return s.db.Put(Collection, guildID, doc)
}

// Names returns every key currently set for the guild, in dot form, sorted.
func (s *Store) Names(guildID string) ([]string, error) {
	doc, err := s.load(guildID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc))
	for k := range doc {
		names = append(names, decodeKey(k))
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the stored values for key, or an empty list when absent.
func (s *Store) Get(guildID, key string) ([]string, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	doc, err := s.load(guildID)
	if err != nil {
		return nil, err
	}
	values := doc[encodeKey(key)]
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

// First returns the first stored value for key, or def when the key is
// absent or empty.
func (s *Store) First(guildID, key, def string) (string, error) {
	values, err := s.Get(guildID, key)
	if err != nil {
		return def, err
	}
	if len(values) == 0 {
		return def, nil
	}
	return values[0], nil
}

// FirstFloat returns the first stored value that parses as a number, or def
// when none does.
func (s *Store) FirstFloat(guildID, key string, def float64) (float64, error) {
	values, err := s.Get(guildID, key)
	if err != nil {
		return def, err
	}
	for _, v := range values {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, nil
		}
	}
	return def, nil
}

// Floats converts every stored value, dropping the ones that do not parse.
func (s *Store) Floats(guildID, key string) ([]float64, error) {
	values, err := s.Get(guildID, key)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out = append(out, f)
		}
	}
	return out, nil
}

// Overwrite replaces the entire list stored at key. Values must be
// non-empty; use Unset to drop a key.
func (s *Store) Overwrite(guildID, key string, values []string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("overwrite of %q requires at least one value", key)
	}
	doc, err := s.load(guildID)
	if err != nil {
		return err
	}
	doc[encodeKey(key)] = append([]string(nil), values...)
	if err := s.save(guildID, doc); err != nil {
		return err
	}
	slog.Info("settings overwrite", "guild", guildID, "key", key, "count", len(values))
	return nil
}

// Insert adds values at position at, skipping values already present.
// at < 0 or past the end appends, 0 prepends, n splices. The key is created
// when absent. Returns the values actually inserted.
func (s *Store) Insert(guildID, key string, values []string, at int) ([]string, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	doc, err := s.load(guildID)
	if err != nil {
		return nil, err
	}

	existing := doc[encodeKey(key)]
	present := make(map[string]bool, len(existing))
	for _, v := range existing {
		present[v] = true
	}
	var added []string
	for _, v := range values {
		if !present[v] {
			present[v] = true
			added = append(added, v)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}

	doc[encodeKey(key)] = spliceIn(existing, added, at)
	if err := s.save(guildID, doc); err != nil {
		return nil, err
	}
	slog.Info("settings insert", "guild", guildID, "key", key, "at", at, "count", len(added))
	return added, nil
}

// Remove deletes entries that exactly match any of values. Absent keys are a
// no-op. Returns the removed entries.
func (s *Store) Remove(guildID, key string, values []string) ([]string, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	doc, err := s.load(guildID)
	if err != nil {
		return nil, err
	}

	existing, ok := doc[encodeKey(key)]
	if !ok {
		return nil, nil
	}
	drop := make(map[string]bool, len(values))
	for _, v := range values {
		drop[v] = true
	}
	kept := existing[:0:0]
	var removed []string
	for _, v := range existing {
		if drop[v] {
			removed = append(removed, v)
		} else {
			kept = append(kept, v)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}

	doc[encodeKey(key)] = kept
	if err := s.save(guildID, doc); err != nil {
		return nil, err
	}
	slog.Info("settings remove", "guild", guildID, "key", key, "count", len(removed))
	return removed, nil
}

// Unset drops the key entirely, reporting whether it existed. Idempotent.
func (s *Store) Unset(guildID, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	doc, err := s.load(guildID)
	if err != nil {
		return false, err
	}
	if _, ok := doc[encodeKey(key)]; !ok {
		return false, nil
	}
	delete(doc, encodeKey(key))
	if err := s.save(guildID, doc); err != nil {
		return false, err
	}
	slog.Info("settings unset", "guild", guildID, "key", key)
	return true, nil
}

// spliceIn inserts add into initial at index at. Out-of-range and negative
// indices append.
func spliceIn(initial, add []string, at int) []string {
	if at >= len(initial) {
		at = -1
	}
	switch {
	case at < 0:
		return append(append([]string(nil), initial...), add...)
	case at == 0:
		return append(append([]string(nil), add...), initial...)
	default:
		out := make([]string, 0, len(initial)+len(add))
		out = append(out, initial[:at]...)
		out = append(out, add...)
		out = append(out, initial[at:]...)
		return out
	}
}
