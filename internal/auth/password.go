package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	saltLength       = 16
	keyLength        = sha256.Size
)

// HashPassword derives a PBKDF2-HMAC-SHA256 hash from the password with a
// fresh random salt and encodes both as "base64(salt):base64(digest)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLength, sha256.New)

	return base64.StdEncoding.EncodeToString(salt) + ":" +
		base64.StdEncoding.EncodeToString(digest), nil
}

// VerifyPassword reports whether the password matches the stored hash. A
// malformed stored value verifies as false rather than returning an error so
// that corrupt records behave like wrong passwords.
func VerifyPassword(stored, password string) bool {
	saltPart, digestPart, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(digestPart)
	if err != nil {
		return false
	}

	digest := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(digest, expected) == 1
}
