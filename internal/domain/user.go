package domain

import "time"

// Role enumerates the fixed set of account roles. Satisfaction of an
// authorization rule is exact set membership; there is no seniority
// between roles.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole validates a role string against the known set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User is the domain model for accounts that log in and own tasks.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
