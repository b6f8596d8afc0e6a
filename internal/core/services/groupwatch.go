package services

import (
	"context"
	"fmt"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"

	"go.uber.org/zap"
)

// GroupWatchJoiner decides whether and when a session joins a group-watch
// room: only on activation, and only when not already connected. It never
// retries; transport failures surface to the caller.
type GroupWatchJoiner struct {
	rooms  ports.RoomService
	logger *zap.SugaredLogger
}

func NewGroupWatchJoiner(rooms ports.RoomService, logger *zap.SugaredLogger) *GroupWatchJoiner {
	return &GroupWatchJoiner{
		rooms:  rooms,
		logger: logger,
	}
}

func (j *GroupWatchJoiner) JoinIfNeeded(ctx context.Context, userID domain.UserID, ref *domain.RoomRef) error {
	if ref == nil {
		return nil
	}

	if j.rooms.Connected(userID, ref.ID) {
		j.logger.Debugw("already connected to room", "user_id", userID, "room", ref.ID)
		return nil
	}

	if err := j.rooms.OpenSession(ctx, userID, *ref); err != nil {
		return fmt.Errorf("failed to open room session: %w", err)
	}

	j.logger.Infow("joined group watch room", "user_id", userID, "room", ref.ID)
	return nil
}
