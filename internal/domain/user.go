package domain

import "time"

// Role controls what a user may do: Readers comment, Writers author posts,
// Admins may act on any post or comment.
type Role string

const (
	RoleReader Role = "Reader"
	RoleWriter Role = "Writer"
	RoleAdmin  Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleWriter, RoleAdmin:
		return true
	}
	return false
}

// CanPublish reports whether the role is allowed to author posts.
func (r Role) CanPublish() bool {
	return r == RoleWriter || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
