package memory

import (
	"context"
	"testing"

	"springboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestMediaRepository_RegisterAndStart(t *testing.T) {
	repo := NewMemoryMediaRepository()
	ctx := context.Background()

	session := &domain.PlaybackSession{MediaID: "m1", Name: "Alien", Location: "loc-1"}
	repo.Register(domain.KeyMedia, "tok-1", session)

	got, err := repo.StartPlayback(ctx, domain.KeyMedia, "tok-1", "u1")
	assert.NoError(t, err)
	assert.Equal(t, session.MediaID, got.MediaID)

	// The catalog hands out copies, never the stored value.
	got.Name = "mutated"
	again, err := repo.StartPlayback(ctx, domain.KeyMedia, "tok-1", "u1")
	assert.NoError(t, err)
	assert.Equal(t, "Alien", again.Name)
}

func TestMediaRepository_KeyKindsAreNamespaced(t *testing.T) {
	repo := NewMemoryMediaRepository()
	ctx := context.Background()

	repo.Register(domain.KeyMedia, "tok", &domain.PlaybackSession{MediaID: "m1"})

	_, err := repo.StartPlayback(ctx, domain.KeyRoom, "tok", "u1")
	assert.ErrorIs(t, err, domain.ErrMediaNotFound)
}

func TestMediaRepository_UnknownToken(t *testing.T) {
	repo := NewMemoryMediaRepository()
	_, err := repo.StartPlayback(context.Background(), domain.KeyMedia, "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrMediaNotFound)
}
