package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KodyPrograms/RevuMe/internal/domain"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

// TokenRepository implements repository.TokenRepository using PostgreSQL.
type TokenRepository struct {
	db DB
}

// NewTokenRepository creates a new PostgreSQL-backed token repository.
func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a new bearer token into the database.
func (r *TokenRepository) Create(ctx context.Context, t *domain.Token) error {
	query := `
		INSERT INTO auth_tokens (id, token, user_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, t.ID, t.Token, t.UserID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	return nil
}

// GetByToken retrieves a token record by its opaque value.
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*domain.Token, error) {
	query := `
		SELECT id, token, user_id, created_at
		FROM auth_tokens
		WHERE token = $1`

	var t domain.Token
	err := r.db.QueryRow(ctx, query, token).Scan(
		&t.ID,
		&t.Token,
		&t.UserID,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}

	return &t, nil
}

// DeleteByToken removes a token by its opaque value. Deleting an unknown
// token is not an error so that logout stays idempotent.
func (r *TokenRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM auth_tokens WHERE token = $1`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	return nil
}
