// Package memory implements the repository interfaces with in-process maps.
// It backs the demo store driver; all data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/KodyPrograms/RevuMe/internal/domain"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

// Store holds all in-memory state behind a single lock. It implements
// repository.UserRepository, repository.TokenRepository and
// repository.ReviewRepository.
type Store struct {
	mu      sync.RWMutex
	users   map[string]domain.User              // user ID -> user
	emails  map[string]string                   // email -> user ID
	tokens  map[string]domain.Token             // token value -> token
	reviews map[string]map[string]domain.Review // user ID -> review ID -> review
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		emails:  make(map[string]string),
		tokens:  make(map[string]domain.Token),
		reviews: make(map[string]map[string]domain.Review),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Tokens returns the token repository view of the store.
func (s *Store) Tokens() *TokenRepository { return &TokenRepository{s: s} }

// Reviews returns the review repository view of the store.
func (s *Store) Reviews() *ReviewRepository { return &ReviewRepository{s: s} }

// UserRepository is the in-memory user store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.emails[u.Email]; ok {
		return apperrors.AlreadyExists("user", "email", u.Email)
	}

	r.s.users[u.ID] = *u
	r.s.emails[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

// TokenRepository is the in-memory token store.
type TokenRepository struct {
	s *Store
}

func (r *TokenRepository) Create(_ context.Context, t *domain.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tokens[t.Token] = *t
	return nil
}

func (r *TokenRepository) GetByToken(_ context.Context, token string) (*domain.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[token]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *TokenRepository) DeleteByToken(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tokens, token)
	return nil
}

// ReviewRepository is the in-memory review store.
type ReviewRepository struct {
	s *Store
}

func (r *ReviewRepository) Create(_ context.Context, rv *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byUser := r.s.reviews[rv.UserID]
	if byUser == nil {
		byUser = make(map[string]domain.Review)
		r.s.reviews[rv.UserID] = byUser
	}

	if _, ok := byUser[rv.ID]; ok {
		return apperrors.AlreadyExists("review", "id", rv.ID)
	}

	byUser[rv.ID] = *rv
	return nil
}

func (r *ReviewRepository) GetByID(_ context.Context, userID, id string) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[userID][id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepository) ListByUserID(_ context.Context, userID string) ([]*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reviews := make([]*domain.Review, 0, len(r.s.reviews[userID]))
	for _, rv := range r.s.reviews[userID] {
		rv := rv
		reviews = append(reviews, &rv)
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return domain.Less(reviews[i], reviews[j])
	})

	return reviews, nil
}

func (r *ReviewRepository) Update(_ context.Context, rv *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byUser := r.s.reviews[rv.UserID]
	if _, ok := byUser[rv.ID]; !ok {
		return apperrors.NotFound("review", rv.ID)
	}

	byUser[rv.ID] = *rv
	return nil
}

func (r *ReviewRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byUser := r.s.reviews[userID]
	if _, ok := byUser[id]; !ok {
		return apperrors.NotFound("review", id)
	}

	delete(byUser, id)
	return nil
}
