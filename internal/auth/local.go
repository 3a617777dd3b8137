package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the claim set carried by locally issued tokens. The
// permissions claim mirrors the shape used by external issuers so the HTTP
// layer does not care which mode is active.
type tokenClaims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// LocalIssuer mints HS256 tokens for deployments that run without an
// external identity provider.
type LocalIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewLocalIssuer(secret string, ttl time.Duration) *LocalIssuer {
	return &LocalIssuer{secret: []byte(secret), ttl: ttl}
}

// IssueToken signs a token for subject carrying the given permissions.
func (i *LocalIssuer) IssueToken(subject string, permissions []string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// LocalVerifier validates tokens minted by a LocalIssuer sharing the same
// secret.
type LocalVerifier struct {
	secret []byte
}

func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

func (v *LocalVerifier) Verify(ctx context.Context, token, requiredScope string) (string, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	found := false
	for _, permission := range claims.Permissions {
		if permission == requiredScope {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrInsufficientScope, requiredScope)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
