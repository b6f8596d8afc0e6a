package domain

// PresenceMetadata carries the artwork and copy shown next to a presence label.
type PresenceMetadata struct {
	Logo     string `json:"logo"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Backdrop string `json:"backdrop"`
	Poster   string `json:"poster"`
}

// PresenceState is a user-visible activity label plus metadata. It is owned
// exclusively by the session lifecycle for the session's duration and is
// mutated exactly twice per session: watching on start, online on end.
type PresenceState struct {
	Label    string           `json:"label"`
	Metadata PresenceMetadata `json:"metadata"`
}

const PresenceOnline = "online"

// Notification is a self-broadcast message delivered on the user's own
// notification channel. Origin names the session that emitted it, so other
// sessions of the same user can tell a foreign beacon from their own.
type Notification struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Origin  SessionID   `json:"origin,omitempty"`
}

const (
	NotifyStreaming     = "streaming"
	NotifyDoneStreaming = "doneStreaming"
)
