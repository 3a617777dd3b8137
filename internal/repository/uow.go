package repository

import "context"

// UnitOfWork mints transaction scopes. Each call to Begin or BeginRead opens
// a fresh store transaction and returns a single-use Scope bound to it;
// re-entry is always a new scope.
type UnitOfWork interface {
	// Begin opens a writable transaction scope.
	Begin(ctx context.Context) (Scope, error)
	// BeginRead opens a transaction scope for reads. Callers must not
	// write through it; implementations may enforce read-only isolation
	// where the store supports it.
	BeginRead(ctx context.Context) (Scope, error)
}

// Scope bounds one atomic transaction and the repositories bound to it.
//
// The contract is rollback-by-default: callers must Commit explicitly for
// writes to persist, and must Close the scope on every exit path (normally
// via defer). Close after Commit is a no-op; Close without Commit rolls the
// transaction back. The underlying transaction is released exactly once.
type Scope interface {
	Posts() PostRepository
	// Commit flushes all changes made through the scope's repositories
	// atomically. Wraps domain.ErrPersistence when the store rejects the
	// transaction.
	Commit() error
	// Rollback discards all changes made through the scope. Best-effort.
	Rollback() error
	// Close releases the transaction, rolling back unless Commit was
	// called. Safe to call more than once.
	Close() error
}
