package accounts

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/joao-fontenele/storefront-otel-demo/internal/validation"
)

// Hasher hashes passwords with bcrypt, which salts every hash.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validation.FieldErrors{"password": "max=72"}
	}
	return string(hash), err
}

func (h *Hasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
