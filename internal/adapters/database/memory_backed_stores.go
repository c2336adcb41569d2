package database

import (
	"context"
	"sync"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
)

// The memory-backed stores wrap the persistent enrichment stores with a
// lazily-populated in-process layer. Entries are never proactively
// invalidated; freshness checks happen at call sites.

// MemoryBackedGeocodeStore wraps a GeocodeStore with an in-process map
type MemoryBackedGeocodeStore struct {
	store repositories.GeocodeStore

	mu      sync.RWMutex
	entries map[string]*entities.GeocodeEntry
}

// NewMemoryBackedGeocodeStore creates a read-through geocode store
func NewMemoryBackedGeocodeStore(store repositories.GeocodeStore) repositories.GeocodeStore {
	return &MemoryBackedGeocodeStore{
		store:   store,
		entries: make(map[string]*entities.GeocodeEntry),
	}
}

// Get returns the in-process entry when present, reading through otherwise
func (s *MemoryBackedGeocodeStore) Get(ctx context.Context, key string) (*entities.GeocodeEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return entry, nil
	}

	entry, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		s.mu.Lock()
		s.entries[key] = entry
		s.mu.Unlock()
	}
	return entry, nil
}

// Put writes through to persistent storage and updates the memory layer
func (s *MemoryBackedGeocodeStore) Put(ctx context.Context, entry *entities.GeocodeEntry) error {
	if err := s.store.Put(ctx, entry); err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[entry.Key] = entry
	s.mu.Unlock()
	return nil
}

// MemoryBackedPlaceIDStore wraps a PlaceIDStore with an in-process map
type MemoryBackedPlaceIDStore struct {
	store repositories.PlaceIDStore

	mu      sync.RWMutex
	entries map[string]*entities.PlaceIDEntry
}

// NewMemoryBackedPlaceIDStore creates a read-through place-id store
func NewMemoryBackedPlaceIDStore(store repositories.PlaceIDStore) repositories.PlaceIDStore {
	return &MemoryBackedPlaceIDStore{
		store:   store,
		entries: make(map[string]*entities.PlaceIDEntry),
	}
}

// Get returns the in-process entry when present, reading through otherwise
func (s *MemoryBackedPlaceIDStore) Get(ctx context.Context, key string) (*entities.PlaceIDEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return entry, nil
	}

	entry, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		s.mu.Lock()
		s.entries[key] = entry
		s.mu.Unlock()
	}
	return entry, nil
}

// Put writes through to persistent storage and updates the memory layer
func (s *MemoryBackedPlaceIDStore) Put(ctx context.Context, entry *entities.PlaceIDEntry) error {
	if err := s.store.Put(ctx, entry); err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[entry.Key] = entry
	s.mu.Unlock()
	return nil
}

// MemoryBackedReviewStore wraps a ReviewStore with an in-process map
type MemoryBackedReviewStore struct {
	store repositories.ReviewStore

	mu      sync.RWMutex
	entries map[string]*entities.ReviewSnapshot
}

// NewMemoryBackedReviewStore creates a read-through review store
func NewMemoryBackedReviewStore(store repositories.ReviewStore) repositories.ReviewStore {
	return &MemoryBackedReviewStore{
		store:   store,
		entries: make(map[string]*entities.ReviewSnapshot),
	}
}

// Get returns the in-process snapshot when present, reading through otherwise
func (s *MemoryBackedReviewStore) Get(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	s.mu.RLock()
	snapshot, ok := s.entries[placeID]
	s.mu.RUnlock()
	if ok {
		return snapshot, nil
	}

	snapshot, err := s.store.Get(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		s.mu.Lock()
		s.entries[placeID] = snapshot
		s.mu.Unlock()
	}
	return snapshot, nil
}

// Put writes through to persistent storage and updates the memory layer
func (s *MemoryBackedReviewStore) Put(ctx context.Context, snapshot *entities.ReviewSnapshot) error {
	if err := s.store.Put(ctx, snapshot); err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[snapshot.PlaceID] = snapshot
	s.mu.Unlock()
	return nil
}
