package services

import (
	"context"
	"fmt"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"

	"go.uber.org/zap"
)

type playbackService struct {
	mediaRepo ports.MediaRepository
	logger    *zap.SugaredLogger
}

func NewPlaybackService(mediaRepo ports.MediaRepository, logger *zap.SugaredLogger) ports.PlaybackService {
	return &playbackService{
		mediaRepo: mediaRepo,
		logger:    logger,
	}
}

// StartPlayback asks the media collaborator for a playable session. A failed
// start is terminal for the request and surfaces as not-found at the boundary.
func (s *playbackService) StartPlayback(ctx context.Context, req domain.PlaybackRequest, userID domain.UserID, serverSide bool) (*domain.PlaybackSession, error) {
	if req.Token == "" {
		return nil, domain.ErrNoPlaybackKey
	}

	session, err := s.mediaRepo.StartPlayback(ctx, req.Key, req.Token, userID)
	if err != nil {
		s.logger.Debugw("playback start failed",
			"key", req.Key,
			"user_id", userID,
			"server_side", serverSide,
			"error", err,
		)
		return nil, fmt.Errorf("failed to start playback: %w", err)
	}

	return session, nil
}

// BuildProps derives the externally visible navigation target and page
// metadata for a started session. When resetPosition is set the returned
// props carry a copy of the session with position zeroed; the original
// record is never mutated.
func (s *playbackService) BuildProps(req domain.PlaybackRequest, session *domain.PlaybackSession, resetPosition bool) *domain.WatchProps {
	var link string
	var room *string

	switch req.Key {
	case domain.KeyFrame:
		link = "/frame=" + req.Token
	case domain.KeyRoom:
		link = "/room=" + req.Token
		token := req.Token
		room = &token
	default:
		link = "/watch=" + session.Location
	}

	media := session
	if resetPosition {
		copied := *session
		copied.Position = 0
		media = &copied
	}

	return &domain.WatchProps{
		MetaTags: domain.MetaTags{
			Name:     session.DisplayName(),
			Overview: session.Overview,
			Link:     link,
			Poster:   session.Poster,
		},
		Media: media,
		Room:  room,
	}
}
