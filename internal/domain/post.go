package domain

import (
	"strings"
	"time"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the known post statuses.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is an article authored by a Writer or Admin. Drafts are visible only
// to their author and to Admins.
type Post struct {
	ID         int64
	Title      string
	Content    string
	Tags       []string
	Status     PostStatus
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PostPage is one page of published posts together with pagination totals.
type PostPage struct {
	Posts []Post
	Page  int
	Pages int
	Total int
}

// SplitTags normalizes a comma separated tag string into trimmed tags,
// preserving order and dropping empties.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
