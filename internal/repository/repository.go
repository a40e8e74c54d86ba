// Package repository defines the persistence interfaces implemented by the
// postgres and memory stores.
package repository

import (
	"context"

	"github.com/KodyPrograms/RevuMe/internal/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenRepository persists bearer tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	GetByToken(ctx context.Context, token string) (*domain.Token, error)
	DeleteByToken(ctx context.Context, token string) error
}

// ReviewRepository persists reviews. All reads and writes are scoped to the
// owning user: a review that exists under a different user behaves as if it
// does not exist.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, userID, id string) (*domain.Review, error)
	ListByUserID(ctx context.Context, userID string) ([]*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, userID, id string) error
}
