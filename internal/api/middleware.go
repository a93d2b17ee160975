package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/opsarc/backupd/internal/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// requireOperator validates the bearer token and confirms privileged-operator
// membership before letting the request through. Token problems map to 401,
// a confirmed non-operator to 403, and an inconclusive membership check to
// 500: nobody gets in unless membership is positively confirmed.
func (s *Server) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.verifier.Authorize(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken),
				errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenExpired):
				s.error(w, http.StatusUnauthorized, err.Error())
			case errors.Is(err, auth.ErrNotOperator):
				s.error(w, http.StatusForbidden, err.Error())
			default:
				s.logger.Error("operator check failed", "error", err)
				s.error(w, http.StatusInternalServerError, "authorization check failed")
			}
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom retrieves the authorized identity stored by requireOperator.
func identityFrom(r *http.Request) *auth.Identity {
	identity, _ := r.Context().Value(identityContextKey).(*auth.Identity)
	return identity
}
