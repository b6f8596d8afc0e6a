package memory

import (
	"context"
	"testing"

	"springboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestPresenceRepository_SetAndGet(t *testing.T) {
	repo := NewMemoryPresenceRepository()
	ctx := context.Background()

	state := &domain.PresenceState{
		Label:    "watching Alien",
		Metadata: domain.PresenceMetadata{Name: "Alien", Poster: "poster.jpg"},
	}
	assert.NoError(t, repo.Set(ctx, "u1", state))

	got, err := repo.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, state, got)

	// Overwrite with the online state.
	assert.NoError(t, repo.Set(ctx, "u1", &domain.PresenceState{Label: domain.PresenceOnline}))
	got, err = repo.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, domain.PresenceOnline, got.Label)
}

func TestPresenceRepository_GetMissing(t *testing.T) {
	repo := NewMemoryPresenceRepository()
	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
