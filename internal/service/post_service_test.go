package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"post-board/internal/domain"
	"post-board/internal/repository/sqlite"
)

func newTestService(t *testing.T) PostService {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqlite.NewPostRepository(db).Init(context.Background()); err != nil {
		t.Fatalf("init post repository: %v", err)
	}
	return NewPostService(sqlite.NewUnitOfWork(db))
}

func TestCreateValidatesRequest(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Create(context.Background(), nil, "alice"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("nil request: expected validation error, got %v", err)
	}
}

func TestCreateValidatesCaller(t *testing.T) {
	svc := newTestService(t)
	req := &CreatePostRequest{Title: "t", Description: "d"}

	for _, caller := range []string{"", "   "} {
		if _, err := svc.Create(context.Background(), req, caller); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("caller %q: expected validation error, got %v", caller, err)
		}
	}
}

func TestCreateThenRead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreatePostRequest{Title: "t", Description: "d"}, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}

	got, err := svc.Read(ctx, created.ID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Title != "t" || got.Description != "d" {
		t.Fatalf("expected request fields back, got %+v", got)
	}
	if got.Votes != 0 {
		t.Fatalf("expected zero votes, got %d", got.Votes)
	}
	if got.Author != "alice" || got.CreatedBy != "alice" || got.UpdatedBy != "alice" {
		t.Fatalf("expected caller stamped everywhere, got %+v", got)
	}
	if _, err := time.Parse(time.RFC3339, got.CreatedAt); err != nil {
		t.Fatalf("created_at not RFC3339: %q", got.CreatedAt)
	}
	if _, err := time.Parse(time.RFC3339, got.UpdatedAt); err != nil {
		t.Fatalf("updated_at not RFC3339: %q", got.UpdatedAt)
	}
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		resp, err := svc.Create(ctx, &CreatePostRequest{Title: "t"}, "alice")
		if err != nil {
			t.Fatalf("create #%d: %v", i, err)
		}
		if seen[resp.ID] {
			t.Fatalf("duplicate id %s", resp.ID)
		}
		seen[resp.ID] = true
	}
}

func TestReadValidatesID(t *testing.T) {
	svc := newTestService(t)

	for _, id := range []string{"", "  "} {
		if _, err := svc.Read(context.Background(), id); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("id %q: expected validation error, got %v", id, err)
		}
	}
}

func TestReadMissingPost(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Read(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReadAllEmptyStore(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(resp.Posts) != 0 {
		t.Fatalf("expected no posts, got %d", len(resp.Posts))
	}
}

func TestReadAllReturnsEveryPost(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	want := map[string]bool{}
	for _, title := range []string{"one", "two", "three"} {
		resp, err := svc.Create(ctx, &CreatePostRequest{Title: title}, "bob")
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		want[resp.ID] = true
	}

	all, err := svc.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(all.Posts) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(all.Posts))
	}
	for _, post := range all.Posts {
		if !want[post.ID] {
			t.Fatalf("unexpected post id %s", post.ID)
		}
	}
}
