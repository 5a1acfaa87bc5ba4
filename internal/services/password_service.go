package services

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost = 12

	MinPasswordLength = 8
	MaxPasswordLength = 255

	// bcrypt ignores input past 72 bytes
	bcryptInputLimit = 72
)

var (
	ErrPasswordEmpty    = errors.New("password cannot be empty")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
)

// PasswordService handles password hashing and verification
type PasswordService struct {
	cost int
}

// NewPasswordService creates a password service. A cost outside bcrypt's
// accepted range falls back to DefaultBCryptCost.
func NewPasswordService(cost int) PasswordServiceInterface {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBCryptCost
	}
	return &PasswordService{cost: cost}
}

// ValidatePassword checks length bounds only. Composition rules are not enforced.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len([]rune(password)) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword(bcryptInput(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword compares a plain password with a hashed password in constant time
func (ps *PasswordService) ComparePassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	return err == nil
}

// bcryptInput pre-hashes passwords longer than bcrypt accepts so the whole
// password contributes to the hash.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptInputLimit {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
