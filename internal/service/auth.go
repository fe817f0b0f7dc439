package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/eventmate/eventmate-go/internal/apperror"
	"github.com/eventmate/eventmate-go/internal/crypto"
	"github.com/eventmate/eventmate-go/internal/metrics"
	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/repository"
	"github.com/eventmate/eventmate-go/internal/validate"
)

var (
	ErrPasswordRequired = apperror.NewValidationError("password is required", nil)
	ErrUsernameTaken    = apperror.NewConflictError("username already taken", nil)
	ErrUserNotFound     = apperror.NewAuthError("user not found", nil)
	ErrWrongPassword    = apperror.NewAuthError("wrong password", nil)
)

// AuthConfig holds the secrets used by AuthService.
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	// AdminCode grants the admin role at registration; empty disables it.
	AdminCode string
}

// AuthService handles registration, credential lookup and login.
type AuthService struct {
	repo      UserStore
	validate  *validate.Validator
	jwtSecret string
	jwtExpiry time.Duration
	adminCode string
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserStore, v *validate.Validator, cfg AuthConfig) *AuthService {
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &AuthService{
		repo:      repo,
		validate:  v,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: expiry,
		adminCode: normalizeAdminCode(cfg.AdminCode),
	}
}

// Register validates the request, resolves the role from the admin code and
// creates the user.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return model.RegisterResponse{}, err
	}

	_, err := s.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return model.RegisterResponse{}, ErrUsernameTaken
	case !errors.Is(err, ErrUserNotFound):
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return model.RegisterResponse{}, err
	}

	role := s.roleFor(req.AdminCode)
	id, err := s.CreateUser(ctx, req.Name, req.Username, req.Password, role)
	if err != nil {
		result := "error"
		if errors.Is(err, ErrUsernameTaken) {
			result = "conflict"
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", result).Inc()
		return model.RegisterResponse{}, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return model.RegisterResponse{
		Message: "user registered",
		UserID:  id,
		Role:    role,
	}, nil
}

// CreateUser hashes the password and stores a new identity. The plaintext
// password is never stored or logged.
func (s *AuthService) CreateUser(ctx context.Context, name, username, password string, role model.Role) (int64, error) {
	if password == "" {
		return 0, ErrPasswordRequired
	}
	if !role.Valid() {
		return 0, apperror.NewValidationError("invalid role", model.ErrInvalidRole)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return 0, apperror.NewInternalError("hashing password", err)
	}

	user := &model.User{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return 0, ErrUsernameTaken
		}
		return 0, apperror.NewInternalError("creating user", err)
	}

	return user.ID, nil
}

// FindByUsername looks up an identity by exact username.
func (s *AuthService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.NewInternalError("finding user", err)
	}
	return user, nil
}

// Login verifies credentials and returns a signed token with the identity.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return model.AuthResponse{}, err
	}

	user, err := s.FindByUsername(ctx, req.Username)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", loginResult(err)).Inc()
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return model.AuthResponse{}, apperror.NewInternalError("verifying password", err)
	}
	if !match {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "denied").Inc()
		return model.AuthResponse{}, ErrWrongPassword
	}

	token, err := crypto.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return model.AuthResponse{}, apperror.NewInternalError("signing token", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return model.AuthResponse{
		Message: "login successful",
		Token:   token,
		User:    user.ToResponse(),
	}, nil
}

// roleFor grants admin when code matches the configured admin code, ignoring
// surrounding whitespace and case.
func (s *AuthService) roleFor(code string) model.Role {
	if s.adminCode == "" {
		return model.RoleUser
	}
	if subtle.ConstantTimeCompare([]byte(normalizeAdminCode(code)), []byte(s.adminCode)) == 1 {
		return model.RoleAdmin
	}
	return model.RoleUser
}

func normalizeAdminCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func loginResult(err error) string {
	if errors.Is(err, ErrUserNotFound) {
		return "denied"
	}
	return "error"
}
