package rates

import (
	"sync/atomic"
	"time"

	"premium-calc/internal/logging"

	"go.uber.org/zap"
)

// Store holds the current Repository for a rates directory. Reload builds a fresh repository and swaps it in
// only when the build succeeds; readers never observe a partially built table.
type Store struct {
	dir      string
	current  atomic.Pointer[Repository]
	loadedAt atomic.Pointer[time.Time]
}

// NewStore builds the initial repository from dir.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds from the directory. On failure the previous repository stays active.
func (s *Store) Reload() error {
	repo, err := LoadFromDir(s.dir)
	if err != nil {
		logging.Warn("rate reload failed", zap.String("dir", s.dir), zap.Error(err))
		return err
	}
	now := time.Now()
	s.current.Store(repo)
	s.loadedAt.Store(&now)
	return nil
}

// Current returns the active repository.
func (s *Store) Current() *Repository {
	return s.current.Load()
}

func (s *Store) Dir() string { return s.dir }

// LoadedAt is the time of the last successful build.
func (s *Store) LoadedAt() time.Time {
	if t := s.loadedAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}
