package domain

import "time"

// Comment belongs to a single post and is never edited in place.
type Comment struct {
	ID         int64
	PostID     int64
	AuthorID   int64
	AuthorName string
	Content    string
	CreatedAt  time.Time
}
