package services

import (
	"context"
	"fmt"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"
)

type presenceService struct {
	presenceRepo ports.PresenceRepository
	notifier     ports.Notifier
}

func NewPresenceService(presenceRepo ports.PresenceRepository, notifier ports.Notifier) ports.PresenceService {
	return &presenceService{
		presenceRepo: presenceRepo,
		notifier:     notifier,
	}
}

func (s *presenceService) ModifyPresence(ctx context.Context, userID domain.UserID, label string, metadata domain.PresenceMetadata) error {
	state := &domain.PresenceState{Label: label, Metadata: metadata}
	if err := s.presenceRepo.Set(ctx, userID, state); err != nil {
		return fmt.Errorf("failed to store presence: %w", err)
	}

	// Presence changes are announced on the user's own channel so other
	// surfaces (social, notification) can pick them up.
	return s.notifier.BroadcastToSelf(ctx, userID, domain.Notification{
		Type:    "presence",
		Title:   label,
		Message: label,
		Data:    state,
	})
}

func (s *presenceService) RestorePresence(ctx context.Context, userID domain.UserID) error {
	return s.ModifyPresence(ctx, userID, domain.PresenceOnline, domain.PresenceMetadata{})
}
