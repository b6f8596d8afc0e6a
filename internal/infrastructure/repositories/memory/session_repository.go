package memory

import (
	"context"
	"sync"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"
)

type MemorySessionRepository struct {
	sessions map[domain.SessionID]*domain.SessionRecord
	byUser   map[domain.UserID]map[domain.SessionID]struct{}
	mu       sync.RWMutex
}

func NewMemorySessionRepository() ports.SessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[domain.SessionID]*domain.SessionRecord),
		byUser:   make(map[domain.UserID]map[domain.SessionID]struct{}),
	}
}

func (r *MemorySessionRepository) Save(ctx context.Context, record *domain.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, exists := r.sessions[record.ID]; exists && prev.UserID != record.UserID {
		delete(r.byUser[prev.UserID], record.ID)
	}

	r.sessions[record.ID] = record
	if _, ok := r.byUser[record.UserID]; !ok {
		r.byUser[record.UserID] = make(map[domain.SessionID]struct{})
	}
	r.byUser[record.UserID][record.ID] = struct{}{}
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id domain.SessionID) (*domain.SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.sessions[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	return record, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id domain.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.sessions[id]
	if !exists {
		return domain.ErrSessionNotFound
	}

	delete(r.sessions, id)
	if ids, ok := r.byUser[record.UserID]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(r.byUser, record.UserID)
		}
	}
	return nil
}

func (r *MemorySessionRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}

	records := make([]*domain.SessionRecord, 0, len(ids))
	for id := range ids {
		records = append(records, r.sessions[id])
	}
	return records, nil
}
