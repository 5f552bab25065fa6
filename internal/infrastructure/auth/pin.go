package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptPinHasher implements usecase.PinHasher using bcrypt. The stored hash
// embeds its own salt and cost, so Verify works across cost changes.
type BcryptPinHasher struct {
	cost int
}

// NewBcryptPinHasher creates a PIN hasher with the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the library default.
func NewBcryptPinHasher(cost int) *BcryptPinHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptPinHasher{cost: cost}
}

// Hash derives a bcrypt hash from the plaintext PIN.
func (h *BcryptPinHasher) Hash(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// Verify compares a plaintext PIN against a stored hash. A mismatch returns
// (false, nil); only infrastructure failures produce an error.
func (h *BcryptPinHasher) Verify(pin, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(pin))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}
