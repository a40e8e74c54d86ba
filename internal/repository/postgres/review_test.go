package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KodyPrograms/RevuMe/internal/domain"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

func newReviewTestFixture(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewReviewRepository(mock)
	return repo, mock
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:       "rev-1",
		UserID:   "5a7d8f1e-1111-4222-8333-444455556666",
		Title:    "Sushi Palace",
		Type:     strp("restaurant"),
		Category: strp("japanese"),
		Rating:   intp(5),
		Address:  strp("12 Ocean Ave"),
		Website:  strp("https://sushipalace.example"),
		Date:     strp("2025-06-01"),
		Notes:    strp("great nigiri"),
		Created:  strp("2025-06-01T12:00:00Z"),
		Updated:  strp("2025-06-02T09:30:00Z"),
	}
}

func reviewTestColumns() []string {
	return []string{
		"id", "user_id", "title", "type", "category", "rating",
		"address", "website", "date", "notes", "photo_data_url",
		"created", "updated",
	}
}

func reviewRow(rv *domain.Review) *pgxmock.Rows {
	return pgxmock.NewRows(reviewTestColumns()).AddRow(
		rv.ID, rv.UserID, rv.Title, rv.Type, rv.Category, rv.Rating,
		rv.Address, rv.Website, rv.Date, rv.Notes, rv.PhotoDataURL,
		rv.Created, rv.Updated,
	)
}

func TestReviewRepository_Create_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			rv.ID, rv.UserID, rv.Title, rv.Type, rv.Category, rv.Rating,
			rv.Address, rv.Website, rv.Date, rv.Notes, rv.PhotoDataURL,
			rv.Created, rv.Updated,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_DuplicateID(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			rv.ID, rv.UserID, rv.Title, rv.Type, rv.Category, rv.Rating,
			rv.Address, rv.Website, rv.Date, rv.Notes, rv.PhotoDataURL,
			rv.Created, rv.Updated,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists), "expected ErrAlreadyExists, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_ScopedToOwner(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE user_id = .+ AND id =").
		WithArgs(rv.UserID, rv.ID).
		WillReturnRows(reviewRow(rv))

	got, err := repo.GetByID(context.Background(), rv.UserID, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, rv.ID, got.ID)
	assert.Equal(t, rv.Title, got.Title)
	assert.Equal(t, rv.Rating, got.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_OtherOwnerNotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE user_id = .+ AND id =").
		WithArgs("other-user", "rev-1").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "other-user", "rev-1")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByUserID_Empty(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE user_id =").
		WithArgs("lonely-user").
		WillReturnRows(pgxmock.NewRows(reviewTestColumns()))

	got, err := repo.ListByUserID(context.Background(), "lonely-user")
	require.NoError(t, err)
	assert.NotNil(t, got, "empty list should not be nil")
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByUserID_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()
	other := sampleReview()
	other.ID = "rev-2"
	other.Updated = strp("2025-06-03T10:00:00Z")

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE user_id =").
		WithArgs(rv.UserID).
		WillReturnRows(reviewRow(other).AddRow(
			rv.ID, rv.UserID, rv.Title, rv.Type, rv.Category, rv.Rating,
			rv.Address, rv.Website, rv.Date, rv.Notes, rv.PhotoDataURL,
			rv.Created, rv.Updated,
		))

	got, err := repo.ListByUserID(context.Background(), rv.UserID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rev-2", got[0].ID)
	assert.Equal(t, "rev-1", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectExec("UPDATE reviews").
		WithArgs(
			rv.Title, rv.Type, rv.Category, rv.Rating, rv.Address,
			rv.Website, rv.Date, rv.Notes, rv.PhotoDataURL, rv.Created,
			rv.Updated, rv.UserID, rv.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), rv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectExec("UPDATE reviews").
		WithArgs(
			rv.Title, rv.Type, rv.Category, rv.Rating, rv.Address,
			rv.Website, rv.Date, rv.Notes, rv.PhotoDataURL, rv.Created,
			rv.Updated, rv.UserID, rv.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM reviews WHERE user_id = .+ AND id =").
		WithArgs("user-1", "rev-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "user-1", "rev-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM reviews WHERE user_id = .+ AND id =").
		WithArgs("user-1", "missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "user-1", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
