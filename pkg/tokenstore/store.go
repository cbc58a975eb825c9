// Package tokenstore persists Zoho access tokens outside the client.
//
// The CRM client keeps its session state in memory only; applications that
// want to reuse a token across processes (or avoid burning refresh calls on
// every start) load a Record at startup, preset it on the client config,
// and save it back after a refresh.
package tokenstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Load when no token is stored for a client id.
var ErrNotFound = errors.New("token not found")

// Record is one persisted token, keyed by the API client id. APIDomain is
// stored alongside because the refresh response may rewrite it.
type Record struct {
	ClientID    string
	AccessToken string
	APIDomain   string
	UpdatedAt   time.Time
}

// Store saves and restores tokens.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, clientID string) (*Record, error)
}

// MemoryStore is an in-process Store, used in tests and by applications
// that only need token reuse within a single run.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	s.records[rec.ClientID] = rec
	return nil
}

func (s *MemoryStore) Load(_ context.Context, clientID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}
