// Package auth verifies bearer credentials and answers one question: who is
// the caller, and may they exercise the required scope.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken indicates the credential could not be verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInsufficientScope indicates a valid token lacking the required scope.
	ErrInsufficientScope = errors.New("insufficient scope")
)

// Verifier checks a bearer token against a required scope and returns the
// caller's identity.
type Verifier interface {
	Verify(ctx context.Context, token, requiredScope string) (string, error)
}
