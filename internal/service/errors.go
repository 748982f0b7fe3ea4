package service

import (
	"errors"
	"fmt"

	"blog-server/internal/authz"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists is returned when registering with a taken username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUnauthenticated means the operation needs a valid session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the actor is authenticated but not allowed.
	ErrForbidden = errors.New("not authorized")
	// ErrNotFound covers missing resources and drafts hidden from the actor.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput flags missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState is returned when commenting on an unpublished post.
	ErrInvalidState = errors.New("cannot comment on an unpublished post")
)

// denyError converts an authorization deny into the matching service error.
func denyError(d authz.Decision, resource string) error {
	switch d.Reason {
	case authz.ReasonNotFound:
		return fmt.Errorf("%s %w", resource, ErrNotFound)
	case authz.ReasonUnauthenticated:
		return ErrUnauthenticated
	case authz.ReasonInvalidState:
		return ErrInvalidState
	default:
		return ErrForbidden
	}
}
