package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
)

// ErrNotFound is returned when no snapshot exists for a station.
var ErrNotFound = errors.New("no snapshot for station")

// Store keeps the latest snapshot per station. It is the loader the HTTP
// API reads from.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// New creates an empty store.
func New() *Store {
	return &Store{snapshots: make(map[string]domain.Snapshot)}
}

// LoadBatch replaces each station's snapshot with the one in the batch. An
// older observation never replaces a newer one.
func (s *Store) LoadBatch(_ context.Context, snapshots []domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		if cur, ok := s.snapshots[snap.Station]; ok && snap.FetchedAt.Before(cur.FetchedAt) {
			continue
		}
		s.snapshots[snap.Station] = snap
	}
	return nil
}

// Latest returns the station's most recent snapshot.
func (s *Store) Latest(station string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[station]
	if !ok {
		return domain.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// Stations lists stations with a snapshot, sorted.
func (s *Store) Stations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.snapshots))
	for station := range s.snapshots {
		out = append(out, station)
	}
	slices.Sort(out)
	return out
}
