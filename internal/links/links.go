// Package links stores one ordered list of lines per (guild, channel) pair.
package links

import (
	"log/slog"
	"sort"

	"github.com/wardenlabs/warden/internal/store"
)

// Collection is the document-store collection backing link lists.
const Collection = "links"

// LinkList is the per-channel document.
type LinkList struct {
	Guild   string   `json:"guild"`
	Channel string   `json:"channel"`
	Lines   []string `json:"lines"`
}

// Store reads and mutates link lists.
type Store struct {
	db *store.Store
}

func New(db *store.Store) *Store {
	return &Store{db: db}
}

func docKey(guildID, channelID string) string {
	return guildID + "/" + channelID
}

// Get returns the channel's link list, creating an empty one on first
// access.
func (s *Store) Get(guildID, channelID string) (*LinkList, error) {
	list := &LinkList{Guild: guildID, Channel: channelID, Lines: []string{}}
	ok, err := s.db.Get(Collection, docKey(guildID, channelID), list)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Debug("creating link list", "guild", guildID, "channel", channelID)
		if err := s.db.Put(Collection, docKey(guildID, channelID), list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// InsertLines inserts lines at index at: -1 or past the end appends, 0
// prepends, n splices. Duplicates are allowed. Returns the inserted lines.
func (s *Store) InsertLines(guildID, channelID string, lines []string, at int) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	list, err := s.Get(guildID, channelID)
	if err != nil {
		return nil, err
	}

	if at >= len(list.Lines) {
		at = -1
	}
	switch {
	case at < 0:
		list.Lines = append(list.Lines, lines...)
	case at == 0:
		list.Lines = append(append([]string(nil), lines...), list.Lines...)
	default:
		out := make([]string, 0, len(list.Lines)+len(lines))
		out = append(out, list.Lines[:at]...)
		out = append(out, lines...)
		out = append(out, list.Lines[at:]...)
		list.Lines = out
	}

	if err := s.db.Put(Collection, docKey(guildID, channelID), list); err != nil {
		return nil, err
	}
	slog.Info("links insert", "guild", guildID, "channel", channelID, "at", at, "count", len(lines))
	return lines, nil
}

// RemoveLines removes the lines at the given indices, resolved against the
// list as it was before any removal. Out-of-range indices are dropped and
// duplicates collapsed. Returns the indices actually removed, sorted.
func (s *Store) RemoveLines(guildID, channelID string, indices []int) ([]int, error) {
	list, err := s.Get(guildID, channelID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(indices))
	removed := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(list.Lines) && !seen[i] {
			seen[i] = true
			removed = append(removed, i)
		}
	}
	sort.Ints(removed)
	if len(removed) == 0 {
		return removed, nil
	}

	kept := make([]string, 0, len(list.Lines)-len(removed))
	for i, line := range list.Lines {
		if !seen[i] {
			kept = append(kept, line)
		}
	}
	list.Lines = kept

	if err := s.db.Put(Collection, docKey(guildID, channelID), list); err != nil {
		return nil, err
	}
	slog.Info("links remove", "guild", guildID, "channel", channelID, "count", len(removed))
	return removed, nil
}
