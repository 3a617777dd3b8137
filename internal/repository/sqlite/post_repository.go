package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"post-board/internal/domain"
	"post-board/internal/repository"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	author TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	votes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	created_by TEXT NOT NULL,
	updated_by TEXT NOT NULL
);
`

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx. A
// repository constructed over a *sql.Tx takes part in the surrounding
// unit-of-work scope; one constructed over *sql.DB autocommits per statement.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// persistedPost mirrors one row of the posts table. It never leaves this
// package.
type persistedPost struct {
	ID          string
	Author      string
	Title       string
	Description string
	Votes       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
}

func (p persistedPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:          p.ID,
		Author:      p.Author,
		Title:       p.Title,
		Description: p.Description,
		Votes:       p.Votes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		CreatedBy:   p.CreatedBy,
		UpdatedBy:   p.UpdatedBy,
	}
}

func persistedFromDomain(post *domain.Post) persistedPost {
	return persistedPost{
		ID:          post.ID,
		Author:      post.Author,
		Title:       post.Title,
		Description: post.Description,
		Votes:       post.Votes,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
		CreatedBy:   post.CreatedBy,
		UpdatedBy:   post.UpdatedBy,
	}
}

type PostRepository struct {
	q querier
}

// NewPostRepository returns a repository bound to db. Use a unit-of-work
// scope instead when the insert must commit atomically with other work.
func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{q: db}
}

func newTxPostRepository(tx *sql.Tx) repository.PostRepository {
	return &PostRepository{q: tx}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post == nil {
		return fmt.Errorf("%w: post is nil", domain.ErrValidation)
	}
	if strings.TrimSpace(post.ID) == "" {
		return fmt.Errorf("%w: post id is blank", domain.ErrValidation)
	}

	row := persistedFromDomain(post)
	if _, err := r.q.ExecContext(ctx, `
INSERT INTO posts (id, author, title, description, votes, created_at, updated_at, created_by, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.Author,
		row.Title,
		row.Description,
		row.Votes,
		row.CreatedAt,
		row.UpdatedAt,
		row.CreatedBy,
		row.UpdatedBy,
	); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) Read(ctx context.Context, id string) (*domain.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: post id is blank", domain.ErrValidation)
	}

	row := r.q.QueryRowContext(ctx, `
SELECT id, author, title, description, votes, created_at, updated_at, created_by, updated_by
FROM posts
WHERE id = ?`,
		id,
	)
	return scanPost(row)
}

func (r *PostRepository) ReadAll(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT id, author, title, description, votes, created_at, updated_at, created_by, updated_by
FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var row persistedPost
		if err := rows.Scan(
			&row.ID,
			&row.Author,
			&row.Title,
			&row.Description,
			&row.Votes,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.CreatedBy,
			&row.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *row.toDomain())
	}

	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	return fmt.Errorf("%w: post update", domain.ErrNotImplemented)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return fmt.Errorf("%w: post delete", domain.ErrNotImplemented)
}

func scanPost(row interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var p persistedPost
	if err := row.Scan(
		&p.ID,
		&p.Author,
		&p.Title,
		&p.Description,
		&p.Votes,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CreatedBy,
		&p.UpdatedBy,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: post", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return p.toDomain(), nil
}
