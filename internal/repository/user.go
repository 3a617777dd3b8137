package repository

import (
	"context"
	"errors"

	"post-board/internal/domain"
)

// ErrUserExists is returned when inserting a username that is already taken.
var ErrUserExists = errors.New("user already exists")

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
