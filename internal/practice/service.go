package practice

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	byUser map[string]map[string]Checkpoint // userID -> fileID -> checkpoint
}

// NewInMemoryStore returns a CheckpointStore backed by a map, for tests
// and offline single-user runs.
func NewInMemoryStore() CheckpointStore {
	return &memoryStore{byUser: map[string]map[string]Checkpoint{}}
}

func (m *memoryStore) UpsertCheckpoint(_ context.Context, cp Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	files, ok := m.byUser[cp.UserID]
	if !ok {
		files = map[string]Checkpoint{}
		m.byUser[cp.UserID] = files
	}
	files[cp.FileID] = cp
	return nil
}

func (m *memoryStore) GetCheckpoint(_ context.Context, userID, fileID string) (Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, ok := m.byUser[userID][fileID]
	if !ok {
		return Checkpoint{}, ErrNoCheckpoint
	}
	return cp, nil
}

func (m *memoryStore) LatestCheckpoint(_ context.Context, userID string) (Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest Checkpoint
	found := false
	for _, cp := range m.byUser[userID] {
		if !found || cp.UpdatedAt.After(latest.UpdatedAt) {
			latest = cp
			found = true
		}
	}
	if !found {
		return Checkpoint{}, ErrNoCheckpoint
	}
	return latest, nil
}
