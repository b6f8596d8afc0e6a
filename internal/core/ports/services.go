package ports

import (
	"context"

	"springboard/internal/core/domain"
)

type PlaybackService interface {
	StartPlayback(ctx context.Context, req domain.PlaybackRequest, userID domain.UserID, serverSide bool) (*domain.PlaybackSession, error)
	BuildProps(req domain.PlaybackRequest, session *domain.PlaybackSession, resetPosition bool) *domain.WatchProps
}

type PresenceService interface {
	ModifyPresence(ctx context.Context, userID domain.UserID, label string, metadata domain.PresenceMetadata) error
	RestorePresence(ctx context.Context, userID domain.UserID) error
}

// Notifier is the per-user self-broadcast channel. Delivery is assumed
// reliable; callers treat failures as fire-and-forget.
type Notifier interface {
	BroadcastToSelf(ctx context.Context, userID domain.UserID, note domain.Notification) error
}

// RoomService decides nothing: it exposes whether a user is connected to a
// group-watch room and performs the join. Retry policy belongs to the
// room transport, not to callers.
type RoomService interface {
	Connected(userID domain.UserID, room domain.MediaID) bool
	OpenSession(ctx context.Context, userID domain.UserID, ref domain.RoomRef) error
}
