// Package store is a file-backed JSON document store. Each collection is a
// single JSON file mapping document keys to raw documents; every mutation is
// persisted immediately with an atomic write. A file lock keeps two bot
// instances from sharing one data directory.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/natefinch/atomic"
)

type Config struct {
	Lock FileLockConfig
}

type collection struct {
	docs map[string]json.RawMessage
}

// Store holds every loaded collection in memory and mirrors mutations to
// disk. All methods are safe for concurrent use.
type Store struct {
	basePath string
	lock     *FileLock

	mu          sync.Mutex
	collections map[string]*collection
}

// Open locks basePath (created if missing) and returns a store over it.
func Open(basePath string, cfg Config) (*Store, error) {
	resolved, err := ResolveBasePath(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(resolved, 0755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", resolved, err)
	}

	lock, err := NewFileLock(resolved, cfg.Lock)
	if err != nil {
		return nil, err
	}

	return &Store{
		basePath:    resolved,
		lock:        lock,
		collections: map[string]*collection{},
	}, nil
}

// BasePath returns the resolved data directory.
func (s *Store) BasePath() string { return s.basePath }

// Get unmarshals the document at key into v. The second return is false
// when the document does not exist.
func (s *Store) Get(col, key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(col)
	if err != nil {
		return false, err
	}
	raw, ok := c.docs[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", col, key, err)
	}
	return true, nil
}

// Put stores v at key and persists the collection.
func (s *Store) Put(col, key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(col)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", col, key, err)
	}
	c.docs[key] = raw
	return s.persist(col, c)
}

// Delete removes the document at key, reporting whether it existed.
func (s *Store) Delete(col, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(col)
	if err != nil {
		return false, err
	}
	if _, ok := c.docs[key]; !ok {
		return false, nil
	}
	delete(c.docs, key)
	return true, s.persist(col, c)
}

// Keys returns the sorted document keys of a collection.
func (s *Store) Keys(col string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(col)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(c.docs))
	for k := range c.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases the data-dir lock. Documents are already on disk.
func (s *Store) Close() {
	s.lock.Unlock()
}

// load returns the collection, reading its file on first access.
func (s *Store) load(col string) (*collection, error) {
	if c, ok := s.collections[col]; ok {
		return c, nil
	}

	c := &collection{docs: map[string]json.RawMessage{}}
	data, err := os.ReadFile(collectionPath(s.basePath, col))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read collection %s: %w", col, err)
		}
	} else if err := json.Unmarshal(data, &c.docs); err != nil {
		return nil, fmt.Errorf("parse collection %s: %w", col, err)
	}

	s.collections[col] = c
	return c, nil
}

func (s *Store) persist(col string, c *collection) error {
	data, err := json.MarshalIndent(c.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", col, err)
	}
	return atomic.WriteFile(collectionPath(s.basePath, col), bytes.NewReader(data))
}
