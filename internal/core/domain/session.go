package domain

import "time"

// SessionRecord is the stored form of an active watch session, published to
// the display layer through the session repository.
type SessionRecord struct {
	ID                SessionID        `json:"id"`
	UserID            UserID           `json:"userId"`
	Media             *PlaybackSession `json:"media"`
	Room              *RoomRef         `json:"room,omitempty"`
	CanonicalLocation string           `json:"canonicalLocation,omitempty"`
	StartedAt         time.Time        `json:"startedAt"`
}
