package domain

import "time"

// User is a registered account. A user owns reviews and tokens; deleting a
// user cascades to both in the store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
