package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KodyPrograms/RevuMe/internal/auth"
	"github.com/KodyPrograms/RevuMe/internal/domain"
	"github.com/KodyPrograms/RevuMe/internal/repository"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 6

// AuthService implements registration, login, logout and token resolution.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	tokenTTL  time.Duration
	logger    *slog.Logger
}

// NewAuthService creates a new auth service. A tokenTTL of zero means tokens
// never expire.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates a new user account and returns it with a fresh bearer
// token, so the caller is logged in immediately.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}
	if len(password) < minPasswordLength {
		return nil, "", apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, "", apperrors.AlreadyExists("user", "email", email)
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh bearer
// token. Unknown emails and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid email or password")
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return user, token, nil
}

// Logout revokes the bearer token. Revoking an unknown token succeeds so the
// operation is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokenRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Resolve maps a bearer token to the owning user ID. Expired tokens are
// deleted on sight when a TTL is configured.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	t, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Unauthorized("invalid or expired token")
		}
		return "", fmt.Errorf("get token: %w", err)
	}

	if s.tokenTTL > 0 && time.Since(t.CreatedAt) > s.tokenTTL {
		if err := s.tokenRepo.DeleteByToken(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "failed to delete expired token",
				slog.String("error", err.Error()),
			)
		}
		return "", apperrors.Unauthorized("invalid or expired token")
	}

	return t.UserID, nil
}

// issueToken mints and stores a fresh opaque token for the user.
func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	value, err := auth.NewToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	token := &domain.Token{
		ID:        uuid.New().String(),
		Token:     value,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return value, nil
}

// normalizeEmail lowercases and trims the address and applies a minimal
// shape check: an "@" with a dot somewhere in the domain part.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	at := strings.LastIndex(email, "@")
	if at <= 0 || !strings.Contains(email[at+1:], ".") {
		return "", apperrors.InvalidInput("invalid email address")
	}

	return email, nil
}
