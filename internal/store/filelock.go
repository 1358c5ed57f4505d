package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// FileLock guards a data directory against concurrent bot instances.
type FileLock struct {
	fl         *flock.Flock
	lockPath   string
	acquiredAt time.Time
	mu         sync.Mutex
}

type FileLockConfig struct {
	Retry    time.Duration
	MaxRetry int
}

func (c *FileLockConfig) defaults() {
	if c.Retry <= 0 {
		c.Retry = 250 * time.Millisecond
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = 8
	}
}

// NewFileLock acquires an exclusive lock on basePath, retrying briefly
// before giving up.
func NewFileLock(basePath string, cfg FileLockConfig) (*FileLock, error) {
	cfg.defaults()

	lockPath := filepath.Join(basePath, "store.lock")
	fl := &FileLock{fl: flock.New(lockPath), lockPath: lockPath}

	for i := 0; i < cfg.MaxRetry; i++ {
		locked, err := fl.fl.TryLock()
		if err != nil {
			return nil, fmt.Errorf("attempt lock: %w", err)
		}
		if locked {
			fl.acquiredAt = time.Now()
			slog.Debug("store lock acquired", "path", lockPath)
			return fl, nil
		}
		if i < cfg.MaxRetry-1 {
			time.Sleep(cfg.Retry)
		}
	}

	return nil, fmt.Errorf("data dir %s is locked by another instance", basePath)
}

func (fl *FileLock) Unlock() {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.fl == nil {
		return
	}
	if err := fl.fl.Unlock(); err != nil {
		slog.Error("failed to release store lock", "path", fl.lockPath, "error", err)
	} else {
		slog.Debug("store lock released",
			"path", fl.lockPath,
			"held_duration_ms", time.Since(fl.acquiredAt).Milliseconds(),
		)
	}
	fl.fl = nil
}

func (fl *FileLock) IsLocked() bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.fl != nil
}
