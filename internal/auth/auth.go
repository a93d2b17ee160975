// Package auth verifies bearer tokens and authorizes callers against the
// privileged-operator store.
//
// Tokens are signed with HMAC-SHA256 using a shared secret. Authorization is
// never cached: every privileged request re-checks operator membership, so an
// operator demoted mid-session loses access on their next call.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing or malformed authorization header")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrNotOperator  = errors.New("operator privileges required")
)

// Identity is a caller whose token and operator membership both checked out.
type Identity struct {
	Subject string
}

// OperatorStore answers whether a subject belongs to the privileged-operator set.
type OperatorStore interface {
	IsOperator(ctx context.Context, subject string) (bool, error)
}

// Verifier validates bearer tokens and checks operator membership.
type Verifier struct {
	secret    []byte
	operators OperatorStore
}

// NewVerifier creates a Verifier that signs-checks with secret and authorizes
// against operators.
func NewVerifier(secret string, operators OperatorStore) *Verifier {
	return &Verifier{secret: []byte(secret), operators: operators}
}

// Authorize validates an Authorization header value and confirms the caller is
// a privileged operator. It returns ErrMissingToken, ErrInvalidToken or
// ErrTokenExpired for token problems, ErrNotOperator for a valid identity that
// is not privileged, and a wrapped store error if membership could not be
// confirmed either way.
func (v *Verifier) Authorize(ctx context.Context, authorization string) (*Identity, error) {
	raw, err := extractBearer(authorization)
	if err != nil {
		return nil, err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	ok, err := v.operators.IsOperator(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("operator lookup for %q: %w", claims.Subject, err)
	}
	if !ok {
		return nil, ErrNotOperator
	}

	return &Identity{Subject: claims.Subject}, nil
}

// extractBearer pulls the raw token out of a "Bearer <token>" header value.
func extractBearer(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrMissingToken
	}
	return parts[1], nil
}

// SignToken mints an HMAC-SHA256 bearer token for subject, valid for ttl.
// Used by the gen_token tool and by tests.
func SignToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "backupd",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
