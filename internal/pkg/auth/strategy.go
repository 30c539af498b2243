package auth

import "time"

// Role grants access to staff operations.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Claims identify the actor behind a request.
type Claims struct {
	ActorID   int64
	Role      Role
	ExpiresAt time.Time
}

// HasRole reports whether the claims satisfy any of required. Admin satisfies everything.
func (c Claims) HasRole(required ...Role) bool {
	if c.Role == RoleAdmin || len(required) == 0 {
		return true
	}
	for _, r := range required {
		if c.Role == r {
			return true
		}
	}
	return false
}

type Strategy interface {
	IssueToken(actorID int64, role Role) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
