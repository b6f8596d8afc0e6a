package services

import (
	"testing"

	"springboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestResolveRequest_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		params    map[string]string
		wantKey   domain.PlaybackKey
		wantToken string
	}{
		{
			name:      "media id wins over everything",
			params:    map[string]string{"mediaId": "m1", "shuffleId": "s1", "roomKey": "r1", "frame": "f1"},
			wantKey:   domain.KeyMedia,
			wantToken: "m1",
		},
		{
			name:      "shuffle id resolves to shuffle",
			params:    map[string]string{"shuffleId": "s1", "identifier": "i1"},
			wantKey:   domain.KeyShuffle,
			wantToken: "s1",
		},
		{
			name:      "identifier before episode",
			params:    map[string]string{"identifier": "i1", "episodeId": "e1"},
			wantKey:   domain.KeyIdentifier,
			wantToken: "i1",
		},
		{
			name:      "episode before playlist",
			params:    map[string]string{"episodeId": "e1", "playlistId": "p1"},
			wantKey:   domain.KeyEpisode,
			wantToken: "e1",
		},
		{
			name:      "playlist before room key",
			params:    map[string]string{"playlistId": "p1", "roomKey": "r1"},
			wantKey:   domain.KeyPlaylist,
			wantToken: "p1",
		},
		{
			name:      "room key before auth",
			params:    map[string]string{"roomKey": "r9", "auth": "a1"},
			wantKey:   domain.KeyRoom,
			wantToken: "r9",
		},
		{
			name:      "auth before frame",
			params:    map[string]string{"auth": "a1", "frame": "f1"},
			wantKey:   domain.KeyAuth,
			wantToken: "a1",
		},
		{
			name:      "frame alone",
			params:    map[string]string{"frame": "f1"},
			wantKey:   domain.KeyFrame,
			wantToken: "f1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ResolveRequest(tt.params)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantKey, req.Key)
			assert.Equal(t, tt.wantToken, req.Token)
		})
	}
}

func TestResolveRequest_EmptyValuesSkipped(t *testing.T) {
	req, err := ResolveRequest(map[string]string{"mediaId": "", "episodeId": "e7"})
	assert.NoError(t, err)
	assert.Equal(t, domain.KeyEpisode, req.Key)
	assert.Equal(t, "e7", req.Token)
}

func TestResolveRequest_NoKey(t *testing.T) {
	_, err := ResolveRequest(map[string]string{})
	assert.ErrorIs(t, err, domain.ErrNoPlaybackKey)

	_, err = ResolveRequest(map[string]string{"unrelated": "x"})
	assert.ErrorIs(t, err, domain.ErrNoPlaybackKey)
}
