package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type operatorStoreFunc func(ctx context.Context, subject string) (bool, error)

func (f operatorStoreFunc) IsOperator(ctx context.Context, subject string) (bool, error) {
	return f(ctx, subject)
}

func allowAll(ctx context.Context, subject string) (bool, error) { return true, nil }
func denyAll(ctx context.Context, subject string) (bool, error)  { return false, nil }
func storeDown(ctx context.Context, subject string) (bool, error) {
	return false, errors.New("connection refused")
}

const testSecret = "test-secret"

func TestAuthorizeSuccess(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(allowAll))

	token, err := SignToken(testSecret, "op-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	identity, err := v.Authorize(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected authorized identity, got: %v", err)
	}
	if identity.Subject != "op-1" {
		t.Fatalf("unexpected subject: %s", identity.Subject)
	}
}

func TestAuthorizeMissingHeader(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(allowAll))

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic dXNlcg==", "token-without-scheme"} {
		if _, err := v.Authorize(context.Background(), header); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("header %q: expected ErrMissingToken, got %v", header, err)
		}
	}
}

func TestAuthorizeBadSignature(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(allowAll))

	token, err := SignToken("other-secret", "op-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Authorize(context.Background(), "Bearer "+token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthorizeExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(allowAll))

	token, err := SignToken(testSecret, "op-1", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Authorize(context.Background(), "Bearer "+token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthorizeMissingSubject(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(allowAll))

	// Well-signed token with no subject claim.
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Authorize(context.Background(), "Bearer "+token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthorizeRejectsNonHMACAlgorithm(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(allowAll))

	claims := jwt.RegisteredClaims{
		Subject:   "op-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Authorize(context.Background(), "Bearer "+token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestAuthorizeNotOperator(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(denyAll))

	token, err := SignToken(testSecret, "former-op", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Authorize(context.Background(), "Bearer "+token); !errors.Is(err, ErrNotOperator) {
		t.Fatalf("expected ErrNotOperator, got %v", err)
	}
}

func TestAuthorizeStoreFailure(t *testing.T) {
	v := NewVerifier(testSecret, operatorStoreFunc(storeDown))

	token, err := SignToken(testSecret, "op-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	_, err = v.Authorize(context.Background(), "Bearer "+token)
	if err == nil {
		t.Fatal("expected an error when the store is unreachable")
	}
	// An inconclusive membership check must not look like a clean denial.
	if errors.Is(err, ErrNotOperator) || errors.Is(err, ErrInvalidToken) {
		t.Fatalf("store failure must surface as an internal error, got %v", err)
	}
}
