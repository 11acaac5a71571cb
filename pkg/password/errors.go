// pkg/password/errors.go

package password

import (
	"errors"
)

var (
	// ErrInvalidLength is returned for a negative or non-integer length.
	ErrInvalidLength = errors.New("invalid password length")

	// ErrEmptyAlphabet is returned when no character is available to draw from.
	ErrEmptyAlphabet = errors.New("empty character alphabet")
)
