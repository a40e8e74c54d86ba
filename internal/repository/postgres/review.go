package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KodyPrograms/RevuMe/internal/domain"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

const reviewColumns = `id, user_id, title, type, category, rating, address, website, date, notes, photo_data_url, created, updated`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review into the database.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		rv.ID,
		rv.UserID,
		rv.Title,
		rv.Type,
		rv.Category,
		rv.Rating,
		rv.Address,
		rv.Website,
		rv.Date,
		rv.Notes,
		rv.PhotoDataURL,
		rv.Created,
		rv.Updated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "id", rv.ID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID, scoped to the owning user.
func (r *ReviewRepository) GetByID(ctx context.Context, userID, id string) (*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND id = $2`

	var rv domain.Review
	err := r.db.QueryRow(ctx, query, userID, id).Scan(
		&rv.ID,
		&rv.UserID,
		&rv.Title,
		&rv.Type,
		&rv.Category,
		&rv.Rating,
		&rv.Address,
		&rv.Website,
		&rv.Date,
		&rv.Notes,
		&rv.PhotoDataURL,
		&rv.Created,
		&rv.Updated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rv, nil
}

// ListByUserID returns all reviews for the given user, newest first by the
// updated timestamp, then by the created timestamp, with missing values last.
func (r *ReviewRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY NULLIF(updated, '') DESC NULLS LAST, NULLIF(created, '') DESC NULLS LAST`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.UserID,
			&rv.Title,
			&rv.Type,
			&rv.Category,
			&rv.Rating,
			&rv.Address,
			&rv.Website,
			&rv.Date,
			&rv.Notes,
			&rv.PhotoDataURL,
			&rv.Created,
			&rv.Updated,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}

	return reviews, nil
}

// Update rewrites an existing review, scoped to the owning user.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	query := `
		UPDATE reviews
		SET title = $1, type = $2, category = $3, rating = $4, address = $5,
		    website = $6, date = $7, notes = $8, photo_data_url = $9, created = $10, updated = $11
		WHERE user_id = $12 AND id = $13`

	ct, err := r.db.Exec(ctx, query,
		rv.Title,
		rv.Type,
		rv.Category,
		rv.Rating,
		rv.Address,
		rv.Website,
		rv.Date,
		rv.Notes,
		rv.PhotoDataURL,
		rv.Created,
		rv.Updated,
		rv.UserID,
		rv.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", rv.ID)
	}

	return nil
}

// Delete removes a review by ID, scoped to the owning user.
func (r *ReviewRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM reviews WHERE user_id = $1 AND id = $2`

	ct, err := r.db.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}
