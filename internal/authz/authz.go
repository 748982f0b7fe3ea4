// Package authz holds the pure authorization rules for posts and comments.
// Every mutating operation and every draft-sensitive read goes through one of
// these functions so the role and ownership rules live in exactly one place.
package authz

import "blog-server/internal/domain"

// Reason explains a deny. A draft hidden from a non-author denies as
// ReasonNotFound so the draft's existence is not revealed.
type Reason string

const (
	ReasonNotFound        Reason = "not_found"
	ReasonForbidden       Reason = "forbidden"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonInvalidState    Reason = "invalid_state"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// ReadPost decides whether actor (nil for anonymous) may see post.
// Published posts are public; drafts are visible only to their author and to
// Admins, and deny as not-found for everyone else.
func ReadPost(actor *domain.User, post *domain.Post) Decision {
	if post.Status == domain.PostStatusPublished {
		return Allow()
	}
	if isAdmin(actor) || owns(actor, post.AuthorID) {
		return Allow()
	}
	return Deny(ReasonNotFound)
}

// CreatePost requires a Writer or Admin actor.
func CreatePost(actor *domain.User) Decision {
	if actor == nil {
		return Deny(ReasonUnauthenticated)
	}
	if !actor.Role.CanPublish() {
		return Deny(ReasonForbidden)
	}
	return Allow()
}

// ModifyPost covers both update and delete: only the post's author or an
// Admin may touch it.
func ModifyPost(actor *domain.User, post *domain.Post) Decision {
	if actor == nil {
		return Deny(ReasonUnauthenticated)
	}
	if isAdmin(actor) || owns(actor, post.AuthorID) {
		return Allow()
	}
	return Deny(ReasonForbidden)
}

// CreateComment requires any authenticated actor and a published target post.
func CreateComment(actor *domain.User, post *domain.Post) Decision {
	if actor == nil {
		return Deny(ReasonUnauthenticated)
	}
	if post.Status != domain.PostStatusPublished {
		return Deny(ReasonInvalidState)
	}
	return Allow()
}

// DeleteComment allows the comment's author or an Admin.
func DeleteComment(actor *domain.User, comment *domain.Comment) Decision {
	if actor == nil {
		return Deny(ReasonUnauthenticated)
	}
	if isAdmin(actor) || owns(actor, comment.AuthorID) {
		return Allow()
	}
	return Deny(ReasonForbidden)
}

func isAdmin(actor *domain.User) bool {
	return actor != nil && actor.Role == domain.RoleAdmin
}

func owns(actor *domain.User, authorID int64) bool {
	return actor != nil && actor.ID == authorID
}
