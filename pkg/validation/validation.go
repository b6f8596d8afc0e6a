package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// TokenRegex validates playback token format
	TokenRegex = regexp.MustCompile(`^[a-zA-Z0-9._:-]+$`)

	// UserIDRegex validates user ID format
	UserIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateToken validates a playback token taken from a resolution parameter
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if len(token) > 200 {
		return fmt.Errorf("token is too long (max 200 characters)")
	}
	if !TokenRegex.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateUserID validates a user ID
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if len(userID) > 100 {
		return fmt.Errorf("user ID is too long (max 100 characters)")
	}
	if !UserIDRegex.MatchString(userID) {
		return fmt.Errorf("invalid user ID format")
	}
	return nil
}

// ValidateDisplayName validates a media or episode display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 200 {
		return fmt.Errorf("name is too long (max 200 characters)")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("name contains invalid characters")
	}
	return nil
}

// ValidateRoomAuth validates a room authorization code
func ValidateRoomAuth(auth string) error {
	if auth == "" {
		return fmt.Errorf("room authorization is required")
	}
	if len(auth) > 200 {
		return fmt.Errorf("room authorization is too long (max 200 characters)")
	}
	if !TokenRegex.MatchString(auth) {
		return fmt.Errorf("invalid room authorization format")
	}
	return nil
}
