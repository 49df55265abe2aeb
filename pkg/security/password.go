package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyPassword is returned when a plaintext password is absent.
	// Hashing or comparing an empty string is always a caller bug.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrHashingFailed is returned when the underlying hash function fails.
	ErrHashingFailed = errors.New("password hashing failed")
)

// PasswordHasher provides the one-way hash and verify primitives used at
// registration and login. Verify returns false without error on a mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hashedPassword string) (bool, error)
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a password hasher using bcrypt with the given
// cost factor. Out-of-range costs fall back to bcrypt's default.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Verify(password, hashedPassword string) (bool, error) {
	if password == "" {
		return false, ErrEmptyPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
