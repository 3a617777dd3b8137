package sqlite

import (
	"context"
	"errors"
	"testing"

	"post-board/internal/domain"
	"post-board/internal/repository"
)

func initUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	repo := NewUserRepository(openTestDB(t))
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init user repository: %v", err)
	}
	return repo
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	repo := initUserRepo(t)
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "hash"}
	id, err := repo.Create(ctx, user)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 || user.ID != id {
		t.Fatalf("expected assigned id, got %d (user.ID %d)", id, user.ID)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be stamped")
	}

	byName, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != id || byName.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", byName)
	}

	byID, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Username != "alice" {
		t.Fatalf("unexpected user %+v", byID)
	}
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	repo := initUserRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	if !errors.Is(err, repository.ErrUserExists) {
		t.Fatalf("expected user exists, got %v", err)
	}
}

func TestUserRepositoryMissingUser(t *testing.T) {
	repo := initUserRepo(t)

	if _, err := repo.GetByUsername(context.Background(), "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
