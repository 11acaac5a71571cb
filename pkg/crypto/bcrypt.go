// pkg/crypto/bcrypt.go

package crypto

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

// MaxBcryptBytes is the longest input bcrypt will hash.
const MaxBcryptBytes = 72

const tooLongHint = "use a shorter --length, or drop --extended (each extended letter is two bytes)"

var (
	// ErrPasswordTooLong is returned when a password exceeds MaxBcryptBytes.
	ErrPasswordTooLong = errors.New("password too long for bcrypt")
	// ErrUnknownAlgorithm is returned by ParseAlgorithm.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)

// Algorithm names a hash applied to generated passwords.
type Algorithm string

const (
	AlgorithmNone   Algorithm = "none"
	AlgorithmBcrypt Algorithm = "bcrypt"
)

// ParseAlgorithm accepts "none", "bcrypt" or an empty string (none).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "", AlgorithmNone:
		return AlgorithmNone, nil
	case AlgorithmBcrypt:
		return a, nil
	default:
		return "", errors.Wrapf(ErrUnknownAlgorithm, "%q", s)
	}
}

// Hash applies alg to password. AlgorithmNone returns "".
func Hash(alg Algorithm, password string) (string, error) {
	switch alg {
	case AlgorithmNone, "":
		return "", nil
	case AlgorithmBcrypt:
		return HashPassword(password)
	default:
		return "", errors.Wrapf(ErrUnknownAlgorithm, "%q", string(alg))
	}
}

// CheckFits rejects alg up front when a password of maxBytes bytes, the
// worst case for a request, would be too long for it.
func CheckFits(alg Algorithm, maxBytes int) error {
	if alg != AlgorithmBcrypt || maxBytes <= MaxBcryptBytes {
		return nil
	}
	return errors.WithHint(
		errors.Wrapf(ErrPasswordTooLong, "up to %d bytes, limit %d", maxBytes, MaxBcryptBytes), tooLongHint)
}

// HashPassword hashes the given password using bcrypt at the default cost (10).
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, bcrypt.DefaultCost)
}

// HashPasswordWithCost hashes a password with a custom cost.
func HashPasswordWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("bcrypt: invalid cost %d (want %d..%d)", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if n := len(password); n > MaxBcryptBytes {
		return "", errors.WithHint(
			errors.Wrapf(ErrPasswordTooLong, "%d bytes, limit %d", n, MaxBcryptBytes), tooLongHint)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt hash failed")
	}
	return string(hash), nil
}

// ComparePassword checks if password matches the bcrypt hash.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
