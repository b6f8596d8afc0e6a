package services

import (
	"context"
	"errors"
	"testing"

	"springboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) StartPlayback(ctx context.Context, key domain.PlaybackKey, token string, userID domain.UserID) (*domain.PlaybackSession, error) {
	args := m.Called(ctx, key, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaybackSession), args.Error(1)
}

func testSession() *domain.PlaybackSession {
	return &domain.PlaybackSession{
		MediaID:  "m1",
		Name:     "Alien",
		Overview: "In space no one can hear you scream.",
		Poster:   "poster.jpg",
		Location: "loc-123",
		Position: 42.5,
	}
}

func TestStartPlayback_Delegates(t *testing.T) {
	repo := new(MockMediaRepository)
	svc := NewPlaybackService(repo, zap.NewNop().Sugar())

	want := testSession()
	repo.On("StartPlayback", mock.Anything, domain.KeyMedia, "m1", domain.UserID("u1")).Return(want, nil)

	got, err := svc.StartPlayback(context.Background(), domain.PlaybackRequest{Key: domain.KeyMedia, Token: "m1"}, "u1", true)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestStartPlayback_EmptyToken(t *testing.T) {
	repo := new(MockMediaRepository)
	svc := NewPlaybackService(repo, zap.NewNop().Sugar())

	_, err := svc.StartPlayback(context.Background(), domain.PlaybackRequest{Key: domain.KeyMedia}, "u1", false)
	assert.ErrorIs(t, err, domain.ErrNoPlaybackKey)
	repo.AssertNotCalled(t, "StartPlayback")
}

func TestStartPlayback_RepoError(t *testing.T) {
	repo := new(MockMediaRepository)
	svc := NewPlaybackService(repo, zap.NewNop().Sugar())

	repo.On("StartPlayback", mock.Anything, domain.KeyEpisode, "e1", domain.UserID("u1")).
		Return(nil, domain.ErrMediaNotFound)

	_, err := svc.StartPlayback(context.Background(), domain.PlaybackRequest{Key: domain.KeyEpisode, Token: "e1"}, "u1", false)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMediaNotFound))
}

func TestBuildProps_MediaLink(t *testing.T) {
	svc := NewPlaybackService(new(MockMediaRepository), zap.NewNop().Sugar())
	session := testSession()

	props := svc.BuildProps(domain.PlaybackRequest{Key: domain.KeyMedia, Token: "m1"}, session, false)

	assert.Equal(t, "/watch=loc-123", props.MetaTags.Link)
	assert.Equal(t, "Alien", props.MetaTags.Name)
	assert.Equal(t, session.Overview, props.MetaTags.Overview)
	assert.Equal(t, "poster.jpg", props.MetaTags.Poster)
	assert.Nil(t, props.Room)
	assert.Same(t, session, props.Media)
}

func TestBuildProps_RoomLink(t *testing.T) {
	svc := NewPlaybackService(new(MockMediaRepository), zap.NewNop().Sugar())
	session := testSession()

	props := svc.BuildProps(domain.PlaybackRequest{Key: domain.KeyRoom, Token: "r9"}, session, false)

	assert.Equal(t, "/room=r9", props.MetaTags.Link)
	if assert.NotNil(t, props.Room) {
		assert.Equal(t, "r9", *props.Room)
	}
}

func TestBuildProps_FrameResetsPosition(t *testing.T) {
	svc := NewPlaybackService(new(MockMediaRepository), zap.NewNop().Sugar())
	session := testSession()

	props := svc.BuildProps(domain.PlaybackRequest{Key: domain.KeyFrame, Token: "tok"}, session, true)

	assert.Equal(t, "/frame=tok", props.MetaTags.Link)
	assert.Nil(t, props.Room)
	assert.Equal(t, float64(0), props.Media.Position)
	// The original session stays untouched.
	assert.Equal(t, 42.5, session.Position)
}

func TestBuildProps_EpisodeNamePreferred(t *testing.T) {
	svc := NewPlaybackService(new(MockMediaRepository), zap.NewNop().Sugar())
	session := testSession()
	session.EpisodeName = "Chapter One"

	props := svc.BuildProps(domain.PlaybackRequest{Key: domain.KeyEpisode, Token: "e1"}, session, false)
	assert.Equal(t, "Chapter One", props.MetaTags.Name)
}
