package repository

import (
	"context"

	"post-board/internal/domain"
)

// PostRepository exposes persistence operations for Post entities. Every row
// read from the store is mapped to a domain.Post before it leaves the
// repository; no store-native type crosses this boundary.
type PostRepository interface {
	Init(ctx context.Context) error
	// Create inserts a new post. The entity must be non-nil and carry a
	// non-blank id. Whether the insert is committed is decided by the
	// enclosing unit-of-work scope, never here.
	Create(ctx context.Context, post *domain.Post) error
	// Read fetches one post by id. Returns domain.ErrNotFound when no row
	// matches and domain.ErrValidation for a blank id.
	Read(ctx context.Context, id string) (*domain.Post, error)
	// ReadAll returns every post in the store's natural order; an empty
	// store yields an empty slice.
	ReadAll(ctx context.Context) ([]domain.Post, error)
	// Update and Delete are declared for contract completeness and return
	// domain.ErrNotImplemented.
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}
