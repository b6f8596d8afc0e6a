package services

import (
	"springboard/internal/core/domain"
)

// resolutionRule binds a query parameter to the playback key it resolves to.
type resolutionRule struct {
	param string
	key   domain.PlaybackKey
}

// resolutionOrder is the fixed precedence of request identifiers. The first
// rule whose parameter is present and non-empty wins; later parameters are
// ignored even when set.
var resolutionOrder = []resolutionRule{
	{"mediaId", domain.KeyMedia},
	{"shuffleId", domain.KeyShuffle},
	{"identifier", domain.KeyIdentifier},
	{"episodeId", domain.KeyEpisode},
	{"playlistId", domain.KeyPlaylist},
	{"roomKey", domain.KeyRoom},
	{"auth", domain.KeyAuth},
	{"frame", domain.KeyFrame},
}

// ResolveRequest maps a query-parameter set to a canonical playback request.
// It has no side effects and returns ErrNoPlaybackKey when none of the
// recognized identifiers is present.
func ResolveRequest(params map[string]string) (*domain.PlaybackRequest, error) {
	for _, rule := range resolutionOrder {
		if token := params[rule.param]; token != "" {
			return &domain.PlaybackRequest{Key: rule.key, Token: token}, nil
		}
	}
	return nil, domain.ErrNoPlaybackKey
}
