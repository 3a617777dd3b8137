package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"post-board/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func initPostRepo(t *testing.T, db *sql.DB) *PostRepository {
	t.Helper()
	repo := &PostRepository{q: db}
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init post repository: %v", err)
	}
	return repo
}

func testPost(id string) *domain.Post {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Post{
		ID:          id,
		Author:      "alice",
		Title:       "t",
		Description: "d",
		Votes:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   "alice",
		UpdatedBy:   "alice",
	}
}

func TestPostRepositoryCreateNil(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))

	err := repo.Create(context.Background(), nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPostRepositoryCreateBlankID(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))

	err := repo.Create(context.Background(), testPost("  "))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPostRepositoryCreateThenRead(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))
	ctx := context.Background()

	want := testPost("post-1")
	if err := repo.Create(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Read(ctx, "post-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ID != want.ID || got.Author != want.Author || got.Title != want.Title ||
		got.Description != want.Description || got.Votes != want.Votes ||
		got.CreatedBy != want.CreatedBy || got.UpdatedBy != want.UpdatedBy {
		t.Fatalf("read returned %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("timestamps not preserved: got %v/%v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestPostRepositoryReadValidatesID(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))

	for _, id := range []string{"", "   ", "\t"} {
		if _, err := repo.Read(context.Background(), id); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("id %q: expected validation error, got %v", id, err)
		}
	}
}

func TestPostRepositoryReadMissing(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))

	_, err := repo.Read(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostRepositoryReadAllEmpty(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))

	posts, err := repo.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty slice, got %v", posts)
	}
}

func TestPostRepositoryReadAll(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, testPost(id)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	posts, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
}

func TestPostRepositoryUpdateDeleteNotImplemented(t *testing.T) {
	repo := initPostRepo(t, openTestDB(t))
	ctx := context.Background()

	if err := repo.Update(ctx, testPost("a")); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("update: expected not implemented, got %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("delete: expected not implemented, got %v", err)
	}
}
