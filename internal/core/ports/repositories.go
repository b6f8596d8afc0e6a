package ports

import (
	"context"

	"springboard/internal/core/domain"
)

// MediaRepository is the external collaborator that owns media state. It
// resolves a playback key/token pair into a playable session for a user.
type MediaRepository interface {
	StartPlayback(ctx context.Context, key domain.PlaybackKey, token string, userID domain.UserID) (*domain.PlaybackSession, error)
}

type SessionRepository interface {
	Save(ctx context.Context, record *domain.SessionRecord) error
	GetByID(ctx context.Context, id domain.SessionID) (*domain.SessionRecord, error)
	Delete(ctx context.Context, id domain.SessionID) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.SessionRecord, error)
}

type PresenceRepository interface {
	Set(ctx context.Context, userID domain.UserID, state *domain.PresenceState) error
	Get(ctx context.Context, userID domain.UserID) (*domain.PresenceState, error)
}
