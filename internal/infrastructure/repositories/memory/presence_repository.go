package memory

import (
	"context"
	"sync"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"
)

type MemoryPresenceRepository struct {
	states map[domain.UserID]*domain.PresenceState
	mu     sync.RWMutex
}

func NewMemoryPresenceRepository() ports.PresenceRepository {
	return &MemoryPresenceRepository{
		states: make(map[domain.UserID]*domain.PresenceState),
	}
}

func (r *MemoryPresenceRepository) Set(ctx context.Context, userID domain.UserID, state *domain.PresenceState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[userID] = state
	return nil
}

func (r *MemoryPresenceRepository) Get(ctx context.Context, userID domain.UserID) (*domain.PresenceState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[userID]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return state, nil
}
