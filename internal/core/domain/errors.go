package domain

import "errors"

var (
	ErrNoPlaybackKey    = errors.New("no playback key resolved")
	ErrMediaNotFound    = errors.New("media not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrAlreadyConnected = errors.New("already connected to room")
	ErrUserNotFound     = errors.New("user not found")
)
