package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocalIssueAndVerify(t *testing.T) {
	issuer := NewLocalIssuer("secret", time.Hour)
	verifier := NewLocalVerifier("secret")

	token, err := issuer.IssueToken("alice", []string{"create-post", "read-post"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	subject, err := verifier.Verify(context.Background(), token, "create-post")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("expected subject alice, got %s", subject)
	}
}

func TestLocalVerifyMissingScope(t *testing.T) {
	issuer := NewLocalIssuer("secret", time.Hour)
	verifier := NewLocalVerifier("secret")

	token, err := issuer.IssueToken("alice", []string{"read-post"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = verifier.Verify(context.Background(), token, "create-post")
	if !errors.Is(err, ErrInsufficientScope) {
		t.Fatalf("expected insufficient scope, got %v", err)
	}
}

func TestLocalVerifyWrongSecret(t *testing.T) {
	issuer := NewLocalIssuer("secret", time.Hour)
	verifier := NewLocalVerifier("other-secret")

	token, err := issuer.IssueToken("alice", []string{"read-post"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), token, "read-post"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestLocalVerifyExpiredToken(t *testing.T) {
	issuer := NewLocalIssuer("secret", -time.Minute)
	verifier := NewLocalVerifier("secret")

	token, err := issuer.IssueToken("alice", []string{"read-post"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), token, "read-post"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestLocalVerifyGarbage(t *testing.T) {
	verifier := NewLocalVerifier("secret")

	if _, err := verifier.Verify(context.Background(), "not-a-jwt", "read-post"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
