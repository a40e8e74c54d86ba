package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/KodyPrograms/RevuMe/internal/domain"
	"github.com/KodyPrograms/RevuMe/internal/repository"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

// Patch is a partial review payload. A key that is absent leaves the field
// untouched; a key set to JSON null clears it. Keys outside the allowed
// field set are ignored.
type Patch map[string]json.RawMessage

// ReviewService implements the per-user review CRUD operations.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, logger: logger}
}

// List returns all of the user's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, userID string) ([]*domain.Review, error) {
	reviews, err := s.reviewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Create builds a review for the user from the payload. The client may
// supply its own id; otherwise one is generated. Title is required.
func (s *ReviewService) Create(ctx context.Context, userID string, patch Patch) (*domain.Review, error) {
	review := &domain.Review{
		ID:     uuid.New().String(),
		UserID: userID,
	}

	if raw, ok := patch["id"]; ok {
		id, err := decodeString("id", raw)
		if err != nil {
			return nil, err
		}
		if id != nil && strings.TrimSpace(*id) != "" {
			review.ID = *id
		}
	}

	if err := applyPatch(review, patch); err != nil {
		return nil, err
	}
	if review.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.AlreadyExists("review", "id", review.ID)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("user_id", userID),
		slog.String("review_id", review.ID),
	)

	return review, nil
}

// Update applies the patch to the user's review and returns the result.
// Reviews owned by other users behave as if they do not exist.
func (s *ReviewService) Update(ctx context.Context, userID, id string, patch Patch) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	if err := applyPatch(review, patch); err != nil {
		return nil, err
	}
	if review.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("user_id", userID),
		slog.String("review_id", review.ID),
	)

	return review, nil
}

// Delete removes the user's review by ID.
func (s *ReviewService) Delete(ctx context.Context, userID, id string) error {
	if err := s.reviewRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("review", id)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("user_id", userID),
		slog.String("review_id", id),
	)

	return nil
}

// applyPatch copies the allowed fields present in the patch onto the review.
func applyPatch(review *domain.Review, patch Patch) error {
	if raw, ok := patch["title"]; ok {
		title, err := decodeString("title", raw)
		if err != nil {
			return err
		}
		if title == nil {
			review.Title = ""
		} else {
			review.Title = strings.TrimSpace(*title)
		}
	}

	stringFields := map[string]**string{
		"type":         &review.Type,
		"category":     &review.Category,
		"address":      &review.Address,
		"website":      &review.Website,
		"date":         &review.Date,
		"notes":        &review.Notes,
		"photoDataUrl": &review.PhotoDataURL,
		"created":      &review.Created,
		"updated":      &review.Updated,
	}
	for name, dst := range stringFields {
		raw, ok := patch[name]
		if !ok {
			continue
		}
		val, err := decodeString(name, raw)
		if err != nil {
			return err
		}
		*dst = val
	}

	if raw, ok := patch["rating"]; ok {
		rating, err := decodeRating(raw)
		if err != nil {
			return err
		}
		review.Rating = rating
	}

	return nil
}

// decodeString decodes a JSON string or null. Anything else is a validation
// error.
func decodeString(field string, raw json.RawMessage) (*string, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be a string", field))
	}
	return &s, nil
}

// decodeRating accepts a JSON integer or a numeric string, mirroring what
// clients historically sent. Fractions and non-numeric strings are rejected.
func decodeRating(raw json.RawMessage) (*int, error) {
	if string(raw) == "null" {
		return nil, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, apperrors.InvalidInput("rating must be an integer")
		}
		return &n, nil
	}

	return nil, apperrors.InvalidInput("rating must be an integer")
}
