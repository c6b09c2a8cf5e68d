// Package listings provides listing snapshot sources: an in-memory store
// fed wholesale by the host, and a Redis-backed store reading snapshots
// published by an external ingestion process.
package listings

import (
	"context"
	"sync"

	"github.com/localpros/discovery/internal/domain"
	"github.com/localpros/discovery/internal/domain/listing"
)

// Memory is an in-memory listing snapshot store, safe for concurrent use.
// Listings are replaced wholesale on each relevant change; the store never
// mutates listing content.
type Memory struct {
	mu    sync.RWMutex
	items []listing.Listing
	byID  map[string]listing.Listing
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]listing.Listing)}
}

// Replace swaps in a new snapshot.
func (m *Memory) Replace(items []listing.Listing) {
	byID := make(map[string]listing.Listing, len(items))
	for _, l := range items {
		byID[l.ID()] = l
	}
	m.mu.Lock()
	m.items = items
	m.byID = byID
	m.mu.Unlock()
}

// Snapshot returns the current listing set.
func (m *Memory) Snapshot(_ context.Context) ([]listing.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]listing.Listing, len(m.items))
	copy(out, m.items)
	return out, nil
}

// Get returns a listing by id.
func (m *Memory) Get(_ context.Context, id string) (listing.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.byID[id]
	if !ok {
		return listing.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

// Ping always succeeds for the in-memory store.
func (m *Memory) Ping(_ context.Context) error { return nil }
