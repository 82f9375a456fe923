// Package credentials wraps password hashing and verification.
package credentials

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is the shortest password accepted anywhere on the
// platform.
const MinPasswordLength = 8

// Hash returns the bcrypt hash of password.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
