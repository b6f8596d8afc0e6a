package domain

type MediaID string
type SessionID string

// PlaybackKey discriminates which kind of identifier a watch request carried.
type PlaybackKey string

const (
	KeyMedia      PlaybackKey = "MEDIA"
	KeyShuffle    PlaybackKey = "SHUFFLE"
	KeyIdentifier PlaybackKey = "IDENTIFIER"
	KeyEpisode    PlaybackKey = "EPISODE"
	KeyPlaylist   PlaybackKey = "PLAYLIST"
	KeyRoom       PlaybackKey = "ROOMKEY"
	KeyAuth       PlaybackKey = "AUTH"
	KeyFrame      PlaybackKey = "FRAME"
)

// PlaybackRequest is the resolved form of a watch request: exactly one
// key/token pair per request, token always non-empty.
type PlaybackRequest struct {
	Key   PlaybackKey
	Token string
}

// PlaybackSession is created once per navigation by the media collaborator
// and treated as immutable afterwards; derive a copy to change it.
type PlaybackSession struct {
	MediaID       MediaID `json:"mediaId"`
	Name          string  `json:"name"`
	EpisodeName   string  `json:"episodeName,omitempty"`
	Overview      string  `json:"overview"`
	Poster        string  `json:"poster"`
	Backdrop      string  `json:"backdrop"`
	Logo          string  `json:"logo"`
	Location      string  `json:"location"`
	Frame         bool    `json:"frame"`
	Position      float64 `json:"position"`
	GuestEligible bool    `json:"isGuestEligible"`
}

// DisplayName prefers the episode name when one is set.
func (s *PlaybackSession) DisplayName() string {
	if s.EpisodeName != "" {
		return s.EpisodeName
	}
	return s.Name
}

// RoomRef points at a group-watch room: the media being watched plus the
// authorization token that admits the caller.
type RoomRef struct {
	ID   MediaID `json:"id"`
	Auth string  `json:"auth"`
}

// MetaTags is the page metadata derived from a started session.
type MetaTags struct {
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Link     string `json:"link"`
	Poster   string `json:"poster"`
}

// WatchProps is everything the display layer needs to render a watch page.
type WatchProps struct {
	MetaTags MetaTags         `json:"metaTags"`
	Media    *PlaybackSession `json:"media"`
	Room     *string          `json:"room"`
}
