package domain

import "time"

type UserID string

// UnknownUser is the sentinel identity used for server-side resolution when
// no authenticated user is present.
const UnknownUser UserID = "unknown"

type UserRole string

const (
	RoleGuest  UserRole = "GUEST"
	RoleMember UserRole = "MEMBER"
	RoleAdmin  UserRole = "ADMIN"
)

// UserIdentity is the identity attached to a watch session. Guest identities
// are ephemeral: created on demand for frame sessions and ended explicitly
// when the owning session tears down.
type UserIdentity struct {
	UserID    UserID
	Role      UserRole
	Session   string
	CreatedAt time.Time
}

func (u UserIdentity) IsGuest() bool {
	return u.Role == RoleGuest
}
