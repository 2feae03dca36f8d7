package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxBcryptCost caps the configurable work factor so hashing stays bounded.
const MaxBcryptCost = 14

var ErrEmptyPassword = errors.New("password must not be empty")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, digest string) bool
}

// BcryptHasher is the production PasswordHasher. Every digest carries its own
// random salt, so hashing the same password twice gives different digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into [bcrypt.MinCost, MaxBcryptCost].
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > MaxBcryptCost:
		cost = MaxBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Check never fails loudly: an empty or malformed digest simply does not match.
func (h *BcryptHasher) Check(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// HashPassword hashes with bcrypt.DefaultCost.
func HashPassword(password string) (string, error) {
	return NewBcryptHasher(bcrypt.DefaultCost).Hash(password)
}

// CheckPassword verifies password against a bcrypt digest.
func CheckPassword(password, digest string) bool {
	return (&BcryptHasher{}).Check(password, digest)
}
