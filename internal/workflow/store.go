package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store persists workflow checkpoints. Save is called after every node
// transition; Load reconstructs the checkpoint for resumption.
type Store interface {
	Load(ctx context.Context, threadID uuid.UUID) (*AnalysisState, error)
	Save(ctx context.Context, state *AnalysisState) error
}

// MemoryStore is an in-process Store used by the sample runner and tests.
// Checkpoints round-trip through JSON so that resumption exercises the same
// serialization path as a durable store.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[uuid.UUID][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		threads: make(map[uuid.UUID][]byte),
	}
}

func (m *MemoryStore) Load(_ context.Context, threadID uuid.UUID) (*AnalysisState, error) {
	m.mu.RLock()
	raw, ok := m.threads[threadID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrThreadNotFound
	}

	var state AnalysisState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint %s: %w", threadID, err)
	}

	return &state, nil
}

func (m *MemoryStore) Save(_ context.Context, state *AnalysisState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint %s: %w", state.ThreadID, err)
	}

	m.mu.Lock()
	m.threads[state.ThreadID] = raw
	m.mu.Unlock()

	return nil
}
