package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KodyPrograms/RevuMe/internal/domain"
	apperrors "github.com/KodyPrograms/RevuMe/pkg/errors"
)

func strp(s string) *string { return &s }

func TestUserRepository_CreateAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u := &domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, store.Users().Create(ctx, u))

	got, err := store.Users().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "u1", Email: "alice@example.com"}))

	err := store.Users().Create(ctx, &domain.User{ID: "u2", Email: "alice@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestTokenRepository_Lifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	tok := &domain.Token{ID: "t1", Token: "opaque", UserID: "u1"}
	require.NoError(t, store.Tokens().Create(ctx, tok))

	got, err := store.Tokens().GetByToken(ctx, "opaque")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, store.Tokens().DeleteByToken(ctx, "opaque"))

	_, err = store.Tokens().GetByToken(ctx, "opaque")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Deleting again stays silent.
	assert.NoError(t, store.Tokens().DeleteByToken(ctx, "opaque"))
}

func TestReviewRepository_OwnerScoping(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	rv := &domain.Review{ID: "r1", UserID: "alice", Title: "Cafe"}
	require.NoError(t, store.Reviews().Create(ctx, rv))

	_, err := store.Reviews().GetByID(ctx, "bob", "r1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "other owner must not see the review")

	got, err := store.Reviews().GetByID(ctx, "alice", "r1")
	require.NoError(t, err)
	assert.Equal(t, "Cafe", got.Title)

	list, err := store.Reviews().ListByUserID(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReviewRepository_DuplicateID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Reviews().Create(ctx, &domain.Review{ID: "r1", UserID: "alice", Title: "A"}))

	err := store.Reviews().Create(ctx, &domain.Review{ID: "r1", UserID: "alice", Title: "B"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestReviewRepository_ListOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	// Newest updated first, created breaks ties, missing values sort last.
	seed := []*domain.Review{
		{ID: "a", UserID: "u", Title: "a", Updated: strp("2025-01-01"), Created: strp("2024-01-01")},
		{ID: "b", UserID: "u", Title: "b", Updated: strp("2025-03-01"), Created: strp("2024-01-01")},
		{ID: "c", UserID: "u", Title: "c", Created: strp("2024-06-01")},
		{ID: "d", UserID: "u", Title: "d"},
		{ID: "e", UserID: "u", Title: "e", Updated: strp("2025-03-01"), Created: strp("2024-02-01")},
	}
	for _, rv := range seed {
		require.NoError(t, store.Reviews().Create(ctx, rv))
	}

	list, err := store.Reviews().ListByUserID(ctx, "u")
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, rv := range list {
		ids = append(ids, rv.ID)
	}
	assert.Equal(t, []string{"e", "b", "a", "c", "d"}, ids)
}

func TestReviewRepository_UpdateAndDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	rv := &domain.Review{ID: "r1", UserID: "alice", Title: "Old"}
	require.NoError(t, store.Reviews().Create(ctx, rv))

	rv.Title = "New"
	require.NoError(t, store.Reviews().Update(ctx, rv))

	got, err := store.Reviews().GetByID(ctx, "alice", "r1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)

	err = store.Reviews().Delete(ctx, "bob", "r1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, store.Reviews().Delete(ctx, "alice", "r1"))

	_, err = store.Reviews().GetByID(ctx, "alice", "r1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
