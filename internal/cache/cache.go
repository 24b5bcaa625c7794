// Package cache holds computed payoff plans keyed by owner so repeated
// timeline reads skip the simulation until a record changes.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// Store is the cache surface the services depend on. Misses and backend
// failures both report ok == false; a cache never fails a request.
type Store[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, data T)
	// Delete drops the entry and advances the key's generation.
	Delete(ctx context.Context, key string)

	// Generation returns the key's current generation. A value computed
	// after reading it is stored with SetIfGeneration, which refuses the
	// write once a Delete has happened in between.
	Generation(ctx context.Context, key string) int64
	SetIfGeneration(ctx context.Context, key string, data T, gen int64) bool
}

// unknownGeneration is returned when the generation cannot be read. It
// never matches, so the following conditional write is skipped.
const unknownGeneration int64 = -1

// Manager handles cache lifecycle and cleanup
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// Cleaner is implemented by caches that must sweep their own expired entries.
type Cleaner interface {
	CleanExpired() int
}

func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanNow(); n > 0 {
				slog.Debug("Expired cache entries removed", "count", n)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// CleanNow sweeps every registered cache once and returns the number of
// entries removed.
func (m *Manager) CleanNow() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop gracefully stops the cleanup routine. It must only be called after
// StartCleanup.
func (m *Manager) Stop() {
	close(m.stopCleanup)
	<-m.cleanupDone
}
