package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func guestIdentity() UserIdentity {
	return UserIdentity{UserID: "guest-1", Role: RoleGuest, Session: "s1"}
}

func TestUserIdentity_IsGuest(t *testing.T) {
	assert.True(t, guestIdentity().IsGuest())
	assert.False(t, UserIdentity{UserID: "u1", Role: RoleMember}.IsGuest())
	assert.False(t, UserIdentity{UserID: UnknownUser}.IsGuest())
}
