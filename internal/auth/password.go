package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Work factor bounds accepted by the hasher. The cost is embedded in the
// bcrypt hash itself, so hashes produced under one factor still verify after
// the factor changes. bcrypt promotes costs below its internal minimum (4)
// to its default.
const (
	MinWorkFactor = 1
	MaxWorkFactor = 31

	// DefaultWorkFactor balances login latency against brute-force cost.
	DefaultWorkFactor = 10
)

// Hasher performs one-way hashing and verification of user secrets.
//
// Hashing cost scales with 2^workFactor. The hasher holds no mutable state
// after construction and is safe for concurrent use.
type Hasher struct {
	workFactor int
}

// NewHasher creates a Hasher with the given work factor.
// Returns ErrInvalidWorkFactor if the factor is outside [1, 31].
func NewHasher(workFactor int) (*Hasher, error) {
	h := &Hasher{}
	if err := h.SetWorkFactor(workFactor); err != nil {
		return nil, err
	}
	return h, nil
}

// SetWorkFactor changes the cost used for subsequent Hash calls.
// Returns ErrInvalidWorkFactor if the factor is outside [1, 31].
func (h *Hasher) SetWorkFactor(workFactor int) error {
	if workFactor < MinWorkFactor || workFactor > MaxWorkFactor {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkFactor, workFactor)
	}
	h.workFactor = workFactor
	return nil
}

// WorkFactor returns the currently configured work factor.
func (h *Hasher) WorkFactor() int {
	return h.workFactor
}

// Hash hashes a plaintext secret with a fresh random salt.
// Two calls on the same secret never produce equal strings, yet both verify.
// Returns ErrEmptySecret for an empty secret.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("hashing secret: %w", ErrEmptySecret)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.workFactor)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether secret is the input that produced hashedSecret,
// regardless of which work factor produced it.
// Returns ErrEmptySecret if either argument is empty.
func (h *Hasher) Compare(secret, hashedSecret string) (bool, error) {
	if secret == "" || hashedSecret == "" {
		return false, fmt.Errorf("comparing secret: %w", ErrEmptySecret)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("comparing secret: %w", err)
	}
}
