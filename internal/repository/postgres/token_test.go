package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KodyPrograms/RevuMe/internal/domain"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

func newTokenTestFixture(t *testing.T) (*TokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewTokenRepository(mock)
	return repo, mock
}

func sampleToken() *domain.Token {
	return &domain.Token{
		ID:        "9b2c3d4e-aaaa-4bbb-8ccc-ddddeeeeffff",
		Token:     "opaque-bearer-value",
		UserID:    "5a7d8f1e-1111-4222-8333-444455556666",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestTokenRepository_Create_Success(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	tok := sampleToken()

	mock.ExpectExec("INSERT INTO auth_tokens").
		WithArgs(tok.ID, tok.Token, tok.UserID, tok.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), tok)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetByToken_Success(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	tok := sampleToken()

	mock.ExpectQuery("SELECT .+ FROM auth_tokens WHERE token =").
		WithArgs(tok.Token).
		WillReturnRows(pgxmock.NewRows([]string{"id", "token", "user_id", "created_at"}).
			AddRow(tok.ID, tok.Token, tok.UserID, tok.CreatedAt))

	got, err := repo.GetByToken(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.UserID, got.UserID)
	assert.Equal(t, tok.Token, got.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetByToken_NotFound(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM auth_tokens WHERE token =").
		WithArgs("unknown").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByToken(context.Background(), "unknown")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteByToken_Idempotent(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM auth_tokens WHERE token =").
		WithArgs("gone-already").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteByToken(context.Background(), "gone-already")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
