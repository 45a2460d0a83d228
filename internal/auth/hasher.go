package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and verifies opaque bcrypt digests for passwords and secret
// answers. bcrypt embeds a fresh salt and the cost in every digest, so hashing
// the same secret twice yields different outputs that both verify.
type Hasher struct {
	cost int
}

// NewHasher constructs a hasher with the given bcrypt cost. Costs outside the
// valid bcrypt range fall back to the default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return Hasher{cost: cost}
}

// Hash returns the opaque digest of a secret.
func (h Hasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether candidate reproduces the stored digest. A mismatch is
// (false, nil); a stored value that is not a well-formed bcrypt digest is
// (false, err) so callers can tell corruption from a wrong secret.
func (h Hasher) Verify(candidate, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("malformed credential hash: %w", err)
	}
}
