package repository

import (
	"context"

	"blog-server/internal/domain"
)

// PostRepository exposes persistence operations for Post aggregates.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Update(ctx context.Context, post *domain.Post) error
	// Delete removes the post and every comment on it in one transaction.
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Post, error)
	// ListPublished returns one page of published posts, newest first, plus
	// the total number of published posts matching the search term.
	ListPublished(ctx context.Context, page, pageSize int, search string) ([]domain.Post, int, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
}

// CommentRepository manages comments attached to posts.
type CommentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}
