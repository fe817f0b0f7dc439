package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/eventmate/eventmate-go/internal/apperror"
	"github.com/eventmate/eventmate-go/internal/crypto"
	"github.com/eventmate/eventmate-go/internal/model"
)

// ErrForbidden is the cause of every role check failure.
var ErrForbidden = errors.New("forbidden")

// CheckRole allows the request only when claims carry exactly role. The
// returned ForbiddenError names the required role and wraps ErrForbidden.
func CheckRole(claims *crypto.Claims, role model.Role) error {
	if claims == nil || !claims.Role.Valid() || claims.Role != role {
		return apperror.NewForbiddenError(fmt.Sprintf("access restricted to %s", role), ErrForbidden)
	}
	return nil
}

// RequireRole returns middleware that must run after JWTAuth. Requests
// without claims get 401; requests with another role get 403.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, ErrMissingToken)
				return
			}
			if err := CheckRole(claims, role); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
