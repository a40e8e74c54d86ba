package domain

import "time"

// Token is a bearer credential: possession authenticates as the owning user.
// Tokens are minted on register/login and deleted on logout; expiry is only
// enforced when a token TTL is configured.
type Token struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
