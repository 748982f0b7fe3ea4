package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"blog-server/internal/domain"
	"blog-server/internal/repository"
)

type testRepos struct {
	db       *sql.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	r := &testRepos{
		db:       db,
		users:    NewUserRepository(db),
		posts:    NewPostRepository(db),
		comments: NewCommentRepository(db),
	}
	ctx := context.Background()
	if err := r.users.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := r.posts.Init(ctx); err != nil {
		t.Fatalf("init posts: %v", err)
	}
	if err := r.comments.Init(ctx); err != nil {
		t.Fatalf("init comments: %v", err)
	}
	return r
}

func (r *testRepos) mustUser(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, PasswordHash: "x", Role: role}
	if _, err := r.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (r *testRepos) mustPost(t *testing.T, author *domain.User, title string, status domain.PostStatus) *domain.Post {
	t.Helper()
	post := &domain.Post{
		Title:    title,
		Content:  "content of " + title,
		Tags:     []string{"go", "test"},
		Status:   status,
		AuthorID: author.ID,
	}
	if _, err := r.posts.Create(context.Background(), post); err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return post
}

func TestUserUniqueUsername(t *testing.T) {
	r := newTestRepos(t)
	r.mustUser(t, "alice", domain.RoleReader)

	_, err := r.users.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "y", Role: domain.RoleReader})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("duplicate username err = %v", err)
	}
}

func TestListPublishedPaginationAndSearch(t *testing.T) {
	r := newTestRepos(t)
	writer := r.mustUser(t, "writer", domain.RoleWriter)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		r.mustPost(t, writer, fmt.Sprintf("Post %02d", i), domain.PostStatusPublished)
	}
	r.mustPost(t, writer, "Hidden Draft", domain.PostStatusDraft)

	page1, total, err := r.posts.ListPublished(ctx, 1, 10, "")
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if total != 12 || len(page1) != 10 {
		t.Fatalf("page 1: %d posts, total %d", len(page1), total)
	}
	// newest first
	if page1[0].Title != "Post 12" {
		t.Fatalf("first post = %q", page1[0].Title)
	}
	if page1[0].AuthorName != "writer" {
		t.Fatalf("author name = %q", page1[0].AuthorName)
	}

	page2, _, err := r.posts.ListPublished(ctx, 2, 10, "")
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("page 2: %d posts", len(page2))
	}

	empty, _, err := r.posts.ListPublished(ctx, 3, 10, "")
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("page 3: %d posts, want 0", len(empty))
	}

	// case-insensitive substring search over title and content
	found, total, err := r.posts.ListPublished(ctx, 1, 10, "pOsT 03")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(found) != 1 || found[0].Title != "Post 03" {
		t.Fatalf("search found %d posts (total %d)", len(found), total)
	}

	// drafts never match, even when the search term does
	hidden, total, err := r.posts.ListPublished(ctx, 1, 10, "hidden draft")
	if err != nil {
		t.Fatalf("search draft: %v", err)
	}
	if total != 0 || len(hidden) != 0 {
		t.Fatalf("draft leaked through search: %d (total %d)", len(hidden), total)
	}
}

func TestPostTagsRoundTrip(t *testing.T) {
	r := newTestRepos(t)
	writer := r.mustUser(t, "writer", domain.RoleWriter)

	post := r.mustPost(t, writer, "Tagged", domain.PostStatusPublished)
	got, err := r.posts.Get(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "test" {
		t.Fatalf("tags = %v", got.Tags)
	}

	untagged := &domain.Post{Title: "Bare", Content: "c", Status: domain.PostStatusDraft, AuthorID: writer.ID}
	if _, err := r.posts.Create(context.Background(), untagged); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err = r.posts.Get(context.Background(), untagged.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Fatalf("tags = %v, want none", got.Tags)
	}
}

func TestDeleteCascadesComments(t *testing.T) {
	r := newTestRepos(t)
	writer := r.mustUser(t, "writer", domain.RoleWriter)
	reader := r.mustUser(t, "reader", domain.RoleReader)
	ctx := context.Background()

	post := r.mustPost(t, writer, "Commented", domain.PostStatusPublished)
	keep := r.mustPost(t, writer, "Kept", domain.PostStatusPublished)

	var commentIDs []int64
	for i := 0; i < 3; i++ {
		comment := &domain.Comment{PostID: post.ID, AuthorID: reader.ID, Content: "hello"}
		if _, err := r.comments.Create(ctx, comment); err != nil {
			t.Fatalf("create comment: %v", err)
		}
		commentIDs = append(commentIDs, comment.ID)
	}
	kept := &domain.Comment{PostID: keep.ID, AuthorID: reader.ID, Content: "survivor"}
	if _, err := r.comments.Create(ctx, kept); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := r.posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	if _, err := r.posts.Get(ctx, post.ID); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("post still readable after delete: %v", err)
	}
	remaining, err := r.comments.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("%d orphan comments left behind", len(remaining))
	}
	for _, id := range commentIDs {
		if _, err := r.comments.Get(ctx, id); err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("comment %d survived the cascade: %v", id, err)
		}
	}

	// comments on other posts are untouched
	if _, err := r.comments.Get(ctx, kept.ID); err != nil {
		t.Fatalf("unrelated comment deleted: %v", err)
	}
}

func TestDeleteMissingPost(t *testing.T) {
	r := newTestRepos(t)
	err := r.posts.Delete(context.Background(), 12345)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestCommentsNewestFirst(t *testing.T) {
	r := newTestRepos(t)
	writer := r.mustUser(t, "writer", domain.RoleWriter)
	reader := r.mustUser(t, "reader", domain.RoleReader)
	ctx := context.Background()

	post := r.mustPost(t, writer, "Discussed", domain.PostStatusPublished)
	for i := 1; i <= 3; i++ {
		comment := &domain.Comment{PostID: post.ID, AuthorID: reader.ID, Content: fmt.Sprintf("comment %d", i)}
		if _, err := r.comments.Create(ctx, comment); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	comments, err := r.comments.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("%d comments", len(comments))
	}
	if comments[0].Content != "comment 3" || comments[2].Content != "comment 1" {
		t.Fatalf("order = %q, %q, %q", comments[0].Content, comments[1].Content, comments[2].Content)
	}
	if comments[0].AuthorName != "reader" {
		t.Fatalf("author name = %q", comments[0].AuthorName)
	}
}
