package memory

import (
	"context"
	"sync"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"
)

// MemoryMediaRepository is an in-process media catalog. Every playback key
// kind gets its own token namespace so a media token and a room token with
// the same value never collide.
type MemoryMediaRepository struct {
	catalog map[string]*domain.PlaybackSession
	mu      sync.RWMutex
}

func NewMemoryMediaRepository() *MemoryMediaRepository {
	return &MemoryMediaRepository{
		catalog: make(map[string]*domain.PlaybackSession),
	}
}

var _ ports.MediaRepository = (*MemoryMediaRepository)(nil)

func catalogKey(key domain.PlaybackKey, token string) string {
	return string(key) + ":" + token
}

// Register seeds the catalog with a resolvable token.
func (r *MemoryMediaRepository) Register(key domain.PlaybackKey, token string, session *domain.PlaybackSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog[catalogKey(key, token)] = session
}

func (r *MemoryMediaRepository) StartPlayback(ctx context.Context, key domain.PlaybackKey, token string, userID domain.UserID) (*domain.PlaybackSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.catalog[catalogKey(key, token)]
	if !exists {
		return nil, domain.ErrMediaNotFound
	}

	// Callers treat sessions as immutable; hand out a copy anyway so a
	// misbehaving caller cannot corrupt the catalog.
	copied := *session
	return &copied, nil
}
