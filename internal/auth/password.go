package auth

import "golang.org/x/crypto/bcrypt"

// Hasher abstracts the password hashing primitive so it can be swapped
// without touching business logic.
type Hasher interface {
	Hash(password string) (string, error)
	// Compare returns a non-nil error when the password does not match the
	// hash. The comparison is constant-time.
	Compare(hashed, plain string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed Hasher with the given cost.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
