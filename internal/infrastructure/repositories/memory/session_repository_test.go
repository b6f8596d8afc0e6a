package memory

import (
	"context"
	"testing"
	"time"

	"springboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func record(id domain.SessionID, user domain.UserID) *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:        id,
		UserID:    user,
		Media:     &domain.PlaybackSession{MediaID: "m1", Name: "Alien"},
		StartedAt: time.Now(),
	}
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	rec := record("s1", "u1")
	assert.NoError(t, repo.Save(ctx, rec))

	got, err := repo.GetByID(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestSessionRepository_GetMissing(t *testing.T) {
	repo := NewMemorySessionRepository()
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Save(ctx, record("s1", "u1")))
	assert.NoError(t, repo.Delete(ctx, "s1"))

	_, err := repo.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "s1"), domain.ErrSessionNotFound)
}

func TestSessionRepository_ListByUser(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Save(ctx, record("s1", "u1")))
	assert.NoError(t, repo.Save(ctx, record("s2", "u1")))
	assert.NoError(t, repo.Save(ctx, record("s3", "u2")))

	records, err := repo.ListByUser(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	assert.NoError(t, repo.Delete(ctx, "s1"))
	records, err = repo.ListByUser(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, domain.SessionID("s2"), records[0].ID)

	records, err = repo.ListByUser(ctx, "unknown-user")
	assert.NoError(t, err)
	assert.Empty(t, records)
}
