package data

import (
	"context"
	"errors"
	"sync"
	"time"

	"profit-forecast/internal/forecast"
)

// ErrNotFound is returned when no result is stored under an id.
var ErrNotFound = errors.New("result not found")

// ResultStore keeps forecast results so clients can fetch them again by id.
type ResultStore interface {
	Save(ctx context.Context, id string, res *forecast.Result) error
	Get(ctx context.Context, id string) (*forecast.Result, error)
	Close() error
}

type memoryEntry struct {
	result    *forecast.Result
	expiresAt time.Time
}

// MemoryStore is an in-process ResultStore with TTL expiry.
// Results are lost on restart; use RedisStore when that matters.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]*memoryEntry
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewMemoryStore starts a store whose entries live for ttl. A janitor
// goroutine removes expired entries every sweep until Close is called.
func NewMemoryStore(ttl, sweep time.Duration) *MemoryStore {
	s := &MemoryStore{
		store: make(map[string]*memoryEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if sweep > 0 {
		go s.cleanup(sweep)
	}
	return s
}

func (s *MemoryStore) Save(_ context.Context, id string, res *forecast.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[id] = &memoryEntry{result: res, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*forecast.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.store[id]
	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.result, nil
}

// Len counts stored entries, expired ones included until the next sweep.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, id)
		}
	}
}
