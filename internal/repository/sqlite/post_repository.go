package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-server/internal/domain"
	"blog-server/internal/repository"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'draft',
	author_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id);
`

const postColumns = `p.id, p.title, p.content, p.tags, p.status, p.author_id, u.username, p.created_at, p.updated_at`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (title, content, tags, status, author_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		joinTags(post.Tags),
		string(post.Status),
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
UPDATE posts
SET title=?, content=?, tags=?, status=?, updated_at=?
WHERE id=?`,
		post.Title,
		post.Content,
		joinTags(post.Tags),
		string(post.Status),
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the post together with its comments; both go or neither does.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id=?`, id); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("post not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit post delete: %w", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.id=?`,
		id,
	)
	return scanPost(row)
}

func (r *PostRepository) ListPublished(ctx context.Context, page, pageSize int, search string) ([]domain.Post, int, error) {
	where := `p.status = ?`
	args := []any{string(domain.PostStatusPublished)}
	if strings.TrimSpace(search) != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		where += ` AND (lower(p.title) LIKE ? OR lower(p.content) LIKE ?)`
		args = append(args, pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	query := `
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE ` + where + `
ORDER BY p.created_at DESC, p.id DESC
LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query published posts: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, rows.Err()
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.author_id=?
ORDER BY p.created_at DESC, p.id DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts by author: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}
	return posts, rows.Err()
}

func (r *PostRepository) ListAll(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.author_id
ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}
	return posts, rows.Err()
}

func collectPosts(rows *sql.Rows) ([]domain.Post, error) {
	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func scanPost(scanner interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var (
		post   domain.Post
		tags   string
		status string
	)
	if err := scanner.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&tags,
		&status,
		&post.AuthorID,
		&post.AuthorName,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post not found")
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	post.Status = domain.PostStatus(status)
	post.Tags = splitStoredTags(tags)
	return &post, nil
}

// Tags are stored as a single comma joined column; SplitTags already trimmed
// them on the way in.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitStoredTags(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, ",")
}
