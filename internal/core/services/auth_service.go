package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"springboard/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrUnauthorized = errors.New("unauthorized")
)

type AuthService interface {
	GenerateToken(userID domain.UserID, role domain.UserRole) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	IdentityFromToken(tokenString string) (*domain.UserIdentity, error)
	SignAsGuest(ctx context.Context) (*domain.UserIdentity, error)
	SignOut(ctx context.Context, identity domain.UserIdentity) error
}

type Claims struct {
	UserID domain.UserID   `json:"user_id"`
	Role   domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	guestTTL  time.Duration

	mu     sync.Mutex
	guests map[domain.UserID]struct{}
}

func NewAuthService(jwtSecret string, tokenTTL, guestTTL time.Duration) AuthService {
	return &authService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		guestTTL:  guestTTL,
		guests:    make(map[domain.UserID]struct{}),
	}
}

func (s *authService) GenerateToken(userID domain.UserID, role domain.UserRole) (string, error) {
	ttl := s.tokenTTL
	if role == domain.RoleGuest {
		ttl = s.guestTTL
	}

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// A signed-out guest token is no longer honored even before expiry.
	if claims.Role == domain.RoleGuest {
		s.mu.Lock()
		_, active := s.guests[claims.UserID]
		s.mu.Unlock()
		if !active {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

func (s *authService) IdentityFromToken(tokenString string) (*domain.UserIdentity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	return &domain.UserIdentity{
		UserID:    claims.UserID,
		Role:      claims.Role,
		Session:   claims.ID,
		CreatedAt: claims.IssuedAt.Time,
	}, nil
}

// SignAsGuest mints an ephemeral identity for frame sessions that require a
// user when none is present. The owning session must end it via SignOut.
func (s *authService) SignAsGuest(ctx context.Context) (*domain.UserIdentity, error) {
	userID := domain.UserID("guest-" + uuid.New().String())

	s.mu.Lock()
	s.guests[userID] = struct{}{}
	s.mu.Unlock()

	token, err := s.GenerateToken(userID, domain.RoleGuest)
	if err != nil {
		s.mu.Lock()
		delete(s.guests, userID)
		s.mu.Unlock()
		return nil, err
	}

	return &domain.UserIdentity{
		UserID:    userID,
		Role:      domain.RoleGuest,
		Session:   token,
		CreatedAt: time.Now(),
	}, nil
}

func (s *authService) SignOut(ctx context.Context, identity domain.UserIdentity) error {
	if identity.Role != domain.RoleGuest {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.guests[identity.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.guests, identity.UserID)
	return nil
}
