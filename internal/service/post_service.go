package service

import (
	"context"
	"fmt"
	"strings"

	"blog-server/internal/authz"
	"blog-server/internal/domain"
	"blog-server/internal/repository"
)

// DefaultPageSize is the number of posts per page when the client does not
// ask for a specific limit.
const DefaultPageSize = 10

// PostInput carries post fields as they arrive on the wire; Tags is a free
// text comma separated string.
type PostInput struct {
	Title   string
	Content string
	Tags    string
	Status  string
}

// PostService coordinates post operations and enforces the authorization
// rules on every mutation and draft-sensitive read.
type PostService interface {
	ListPublished(ctx context.Context, page, pageSize int, search string) (*domain.PostPage, error)
	ListMine(ctx context.Context, actor *domain.User) ([]domain.Post, error)
	Get(ctx context.Context, id int64, actor *domain.User) (*domain.Post, error)
	Create(ctx context.Context, actor *domain.User, in PostInput) (*domain.Post, error)
	Update(ctx context.Context, id int64, actor *domain.User, in PostInput) (*domain.Post, error)
	Delete(ctx context.Context, id int64, actor *domain.User) error
}

type postService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts}
}

func (s *postService) ListPublished(ctx context.Context, page, pageSize int, search string) (*domain.PostPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	posts, total, err := s.posts.ListPublished(ctx, page, pageSize, search)
	if err != nil {
		return nil, err
	}

	return &domain.PostPage{
		Posts: posts,
		Page:  page,
		Pages: (total + pageSize - 1) / pageSize,
		Total: total,
	}, nil
}

func (s *postService) ListMine(ctx context.Context, actor *domain.User) ([]domain.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if actor.Role == domain.RoleAdmin {
		return s.posts.ListAll(ctx)
	}
	return s.posts.ListByAuthor(ctx, actor.ID)
}

func (s *postService) Get(ctx context.Context, id int64, actor *domain.User) (*domain.Post, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.ReadPost(actor, post); !d.Allowed {
		return nil, denyError(d, "post")
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, actor *domain.User, in PostInput) (*domain.Post, error) {
	if d := authz.CreatePost(actor); !d.Allowed {
		return nil, denyError(d, "post")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	status := domain.PostStatus(in.Status)
	if in.Status == "" {
		status = domain.PostStatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}

	post := &domain.Post{
		Title:      title,
		Content:    in.Content,
		Tags:       domain.SplitTags(in.Tags),
		Status:     status,
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update keeps any field the client leaves empty, matching the web client's
// partial edit form.
func (s *postService) Update(ctx context.Context, id int64, actor *domain.User, in PostInput) (*domain.Post, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.ModifyPost(actor, post); !d.Allowed {
		return nil, denyError(d, "post")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		post.Title = title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.Tags != "" {
		post.Tags = domain.SplitTags(in.Tags)
	}
	if in.Status != "" {
		status := domain.PostStatus(in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
		}
		post.Status = status
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id int64, actor *domain.User) error {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}
	if d := authz.ModifyPost(actor, post); !d.Allowed {
		return denyError(d, "post")
	}
	return s.posts.Delete(ctx, post.ID)
}

func (s *postService) getPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, fmt.Errorf("post %w", ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}
