package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"post-board/internal/domain"
	"post-board/internal/repository"
)

// UnitOfWork mints transaction scopes over a sqlite database. It holds no
// per-request state; every Begin opens its own transaction.
type UnitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Begin(ctx context.Context) (repository.Scope, error) {
	return u.begin(ctx)
}

// BeginRead opens a scope for reads. A deferred sqlite transaction already
// gives reads a consistent snapshot without taking the write lock, so the
// read-only guarantee is held at the contract level rather than through
// sql.TxOptions.
func (u *UnitOfWork) BeginRead(ctx context.Context) (repository.Scope, error) {
	return u.begin(ctx)
}

func (u *UnitOfWork) begin(ctx context.Context) (repository.Scope, error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &scope{
		tx:    tx,
		posts: newTxPostRepository(tx),
	}, nil
}

// scope is a single-use transaction scope. Close rolls back unless Commit
// was called; either way the transaction is released exactly once.
type scope struct {
	tx    *sql.Tx
	posts repository.PostRepository

	mu   sync.Mutex
	done bool
}

func (s *scope) Posts() repository.PostRepository {
	return s.posts
}

func (s *scope) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return fmt.Errorf("%w: scope already closed", domain.ErrPersistence)
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *scope) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbackLocked()
}

func (s *scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbackLocked()
}

func (s *scope) rollbackLocked() error {
	if s.done {
		return nil
	}
	s.done = true
	// best effort: a failed rollback leaves nothing for the caller to do
	_ = s.tx.Rollback()
	return nil
}
