package service

import (
	"context"
	"fmt"
	"strings"

	"blog-server/internal/authz"
	"blog-server/internal/domain"
	"blog-server/internal/repository"
)

// CommentService coordinates threaded comments under posts.
type CommentService interface {
	ListForPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	Add(ctx context.Context, actor *domain.User, postID int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor *domain.User, commentID int64) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{
		comments: comments,
		posts:    posts,
	}
}

func (s *commentService) ListForPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func (s *commentService) Add(ctx context.Context, actor *domain.User, postID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}

	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, fmt.Errorf("post %w", ErrNotFound)
		}
		return nil, err
	}

	if d := authz.CreateComment(actor, post); !d.Allowed {
		return nil, denyError(d, "post")
	}

	comment := &domain.Comment{
		PostID:     post.ID,
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
		Content:    content,
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, actor *domain.User, commentID int64) error {
	comment, err := s.comments.Get(ctx, commentID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return fmt.Errorf("comment %w", ErrNotFound)
		}
		return err
	}

	if d := authz.DeleteComment(actor, comment); !d.Allowed {
		return denyError(d, "comment")
	}
	return s.comments.Delete(ctx, comment.ID)
}
