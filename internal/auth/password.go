// Package auth provides password hashing and JWT token utilities.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing.
// bcrypt.DefaultCost (10) matches the hashes produced by the deployed system.
const bcryptCost = bcrypt.DefaultCost

// MaxPasswordLength caps password input. bcrypt silently truncates at 72
// bytes, so longer inputs are rejected instead.
const MaxPasswordLength = 72

// ErrPasswordTooLong indicates the password exceeds the bcrypt input limit.
var ErrPasswordTooLong = errors.New("password exceeds maximum length")

// HashPassword creates a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword checks if the password matches the stored hash.
// bcrypt's comparison is constant time with respect to the hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
