package services

import (
	"context"
	"testing"
	"time"

	"springboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func newTestAuthService() AuthService {
	return NewAuthService("test-secret", 15*time.Minute, time.Hour)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.GenerateToken("u1", domain.RoleMember)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), claims.UserID)
	assert.Equal(t, domain.RoleMember, claims.Role)

	identity, err := svc.IdentityFromToken(token)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), identity.UserID)
	assert.False(t, identity.IsGuest())
}

func TestAuthService_InvalidToken(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService("other-secret", time.Minute, time.Minute)
	token, err := other.GenerateToken("u1", domain.RoleMember)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_GuestLifecycle(t *testing.T) {
	svc := newTestAuthService()

	guest, err := svc.SignAsGuest(context.Background())
	assert.NoError(t, err)
	assert.True(t, guest.IsGuest())
	assert.NotEmpty(t, guest.Session)

	claims, err := svc.ValidateToken(guest.Session)
	assert.NoError(t, err)
	assert.Equal(t, guest.UserID, claims.UserID)

	assert.NoError(t, svc.SignOut(context.Background(), *guest))

	// A signed-out guest token stops validating even before expiry.
	_, err = svc.ValidateToken(guest.Session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_SignOutNonGuestIsNoop(t *testing.T) {
	svc := newTestAuthService()
	err := svc.SignOut(context.Background(), domain.UserIdentity{UserID: "u1", Role: domain.RoleMember})
	assert.NoError(t, err)
}

func TestAuthService_SignOutUnknownGuest(t *testing.T) {
	svc := newTestAuthService()
	err := svc.SignOut(context.Background(), domain.UserIdentity{UserID: "guest-x", Role: domain.RoleGuest})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_DistinctGuests(t *testing.T) {
	svc := newTestAuthService()

	a, err := svc.SignAsGuest(context.Background())
	assert.NoError(t, err)
	b, err := svc.SignAsGuest(context.Background())
	assert.NoError(t, err)

	assert.NotEqual(t, a.UserID, b.UserID)

	// Signing out one guest leaves the other valid.
	assert.NoError(t, svc.SignOut(context.Background(), *a))
	_, err = svc.ValidateToken(b.Session)
	assert.NoError(t, err)
}
