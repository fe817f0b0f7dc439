package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eventmate/eventmate-go/internal/model"
)

const (
	tokenIssuer   = "eventmate"
	tokenAudience = "eventmate-api"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the JWT claims for EventMate authentication. The
// registered jti claim lives in RegisteredClaims.ID; the user id is UserID.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64      `json:"id"`
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// GenerateToken signs the user's identity claims with an expiry of now+expiry.
func GenerateToken(user *model.User, secret string, expiry time.Duration) (string, error) {
	return generateTokenAt(user, secret, expiry, time.Now())
}

func generateTokenAt(user *model.User, secret string, expiry time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   user.ID,
		Name:     user.Name,
		Username: user.Username,
		Role:     user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token string. A token is valid iff the
// signature verifies, it has not expired, and its role is user or admin.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
