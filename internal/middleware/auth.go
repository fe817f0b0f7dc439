package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/eventmate/eventmate-go/internal/apperror"
	"github.com/eventmate/eventmate-go/internal/crypto"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenQueryParam is the query parameter accepted when no Bearer header is sent.
const TokenQueryParam = "token"

var (
	ErrMissingToken = apperror.NewAuthError("token not found", nil)
	ErrInvalidToken = apperror.NewAuthError("invalid or expired token", nil)
)

// ExtractToken returns the bearer token from the Authorization header or,
// failing that, from the token query parameter.
func ExtractToken(r *http.Request) (string, bool) {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		if token = strings.TrimSpace(token); token != "" {
			return token, true
		}
	}
	if token := r.URL.Query().Get(TokenQueryParam); token != "" {
		return token, true
	}
	return "", false
}

// Authenticate verifies the token of a request, returning ErrMissingToken
// when none was supplied and ErrInvalidToken when verification fails.
func Authenticate(r *http.Request, secret string) (*crypto.Claims, error) {
	token, ok := ExtractToken(r)
	if !ok {
		return nil, ErrMissingToken
	}
	claims, err := crypto.ValidateToken(token, secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWTAuth returns middleware that rejects requests without a valid token and
// stores the verified claims in the request context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := Authenticate(r, secret)
			if err != nil {
				writeError(w, err)
				return
			}

			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Int64("user_id", claims.UserID)
			})

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the verified token claims from the request context.
func ClaimsFromContext(ctx context.Context) (*crypto.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return claims, ok && claims != nil
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *crypto.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
