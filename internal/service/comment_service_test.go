package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"blog-server/internal/domain"
)

type fakeCommentRepo struct {
	comments []domain.Comment
	nextID   int64
}

func (f *fakeCommentRepo) Init(ctx context.Context) error { return nil }

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now().UTC()
	f.comments = append(f.comments, *comment)
	return comment.ID, nil
}

func (f *fakeCommentRepo) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	for i := range f.comments {
		if f.comments[i].ID == id {
			comment := f.comments[i]
			return &comment, nil
		}
	}
	return nil, fmt.Errorf("comment not found")
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, comment := range f.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment not found")
}

func newCommentFixture(t *testing.T) (CommentService, *domain.Post, *domain.Post) {
	t.Helper()
	postRepo := &fakePostRepo{}
	posts := NewPostService(postRepo)
	ctx := context.Background()

	published, err := posts.Create(ctx, testWriter, PostInput{
		Title: "Published", Content: "c", Status: string(domain.PostStatusPublished),
	})
	if err != nil {
		t.Fatalf("create published: %v", err)
	}
	draft, err := posts.Create(ctx, testWriter, PostInput{Title: "Draft", Content: "c"})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	return NewCommentService(&fakeCommentRepo{}, postRepo), published, draft
}

func TestAddComment(t *testing.T) {
	svc, published, draft := newCommentFixture(t)
	ctx := context.Background()

	comment, err := svc.Add(ctx, testReader, published.ID, "nice post")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if comment.AuthorID != testReader.ID || comment.PostID != published.ID {
		t.Fatalf("comment = %+v", comment)
	}

	if _, err := svc.Add(ctx, nil, published.ID, "anon"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous err = %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.Add(ctx, testReader, published.ID, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty content err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Add(ctx, testReader, 999, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing post err = %v, want ErrNotFound", err)
	}

	// nobody may comment on a draft, not even its author or an admin
	for _, actor := range []*domain.User{testReader, testWriter, testAdmin} {
		if _, err := svc.Add(ctx, actor, draft.ID, "sneaky"); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("%s on draft err = %v, want ErrInvalidState", actor.Role, err)
		}
	}
}

func TestDeleteCommentOwnership(t *testing.T) {
	svc, published, _ := newCommentFixture(t)
	ctx := context.Background()

	comment, err := svc.Add(ctx, testReader, published.ID, "mine")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Delete(ctx, testWriter, comment.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, testReader, comment.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := svc.Delete(ctx, testReader, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}

	adminTarget, err := svc.Add(ctx, testReader, published.ID, "for admin")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Delete(ctx, testAdmin, adminTarget.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
