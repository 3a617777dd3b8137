package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwksPath = "/.well-known/jwks.json"

// JWKSVerifier validates RS256 tokens issued by an external identity
// provider. Signing keys are fetched from the issuer's JWKS endpoint and
// cached; an unknown kid forces a refresh.
type JWKSVerifier struct {
	issuerURL string
	audience  string
	client    *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
	cacheTTL  time.Duration
}

func NewJWKSVerifier(issuerURL, audience string) *JWKSVerifier {
	return &JWKSVerifier{
		issuerURL: issuerURL,
		audience:  audience,
		client:    &http.Client{Timeout: 10 * time.Second},
		keys:      map[string]*rsa.PublicKey{},
		cacheTTL:  10 * time.Minute,
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, token, requiredScope string) (string, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("token has no kid header")
			}
			return v.keyForKid(ctx, kid)
		},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	if !permissionsContain(claims["permissions"], requiredScope) {
		return "", fmt.Errorf("%w: %s", ErrInsufficientScope, requiredScope)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}

func permissionsContain(claim any, scope string) bool {
	values, ok := claim.([]any)
	if !ok {
		return false
	}
	for _, value := range values {
		if s, ok := value.(string); ok && s == scope {
			return true
		}
	}
	return false
}

func (v *JWKSVerifier) keyForKid(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key, ok := v.keys[kid]
	stale := time.Since(v.fetchedAt) > v.cacheTTL
	if ok && !stale {
		return key, nil
	}

	if err := v.refreshLocked(ctx); err != nil {
		// keep serving a cached key through transient jwks outages
		if ok {
			return key, nil
		}
		return nil, err
	}

	key, ok = v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no jwks key for kid %s", kid)
	}
	return key, nil
}

type jwksDocument struct {
	Keys []struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Use string `json:"use"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (v *JWKSVerifier) refreshLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.issuerURL+jwksPath, nil)
	if err != nil {
		return fmt.Errorf("build jwks request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}

	keys := map[string]*rsa.PublicKey{}
	for _, entry := range doc.Keys {
		if entry.Kty != "RSA" || entry.Kid == "" {
			continue
		}
		key, err := rsaKeyFromJWK(entry.N, entry.E)
		if err != nil {
			return fmt.Errorf("parse jwks key %s: %w", entry.Kid, err)
		}
		keys[entry.Kid] = key
	}

	v.keys = keys
	v.fetchedAt = time.Now()
	return nil
}

func rsaKeyFromJWK(nRaw, eRaw string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nRaw)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eRaw)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, fmt.Errorf("zero exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
