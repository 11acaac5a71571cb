// Package password generates random passwords from a fixed table of
// character pools and keeps the last-used generation settings.
package password

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// growCap bounds the up-front buffer so huge lengths cannot overflow it.
const growCap = 1 << 16

// Request selects the length and the optional pools for one generation.
// The base pool is always included.
type Request struct {
	Length                 int  `json:"length" yaml:"length"`
	IncludeNumbers         bool `json:"include_numbers" yaml:"include_numbers"`
	IncludeExtendedLetters bool `json:"include_extended_letters" yaml:"include_extended_letters"`
	IncludeSymbols         bool `json:"include_symbols" yaml:"include_symbols"`
}

// Generator draws password characters from Source.
type Generator struct {
	// Source of randomness. Nil means crypto/rand.Reader.
	Source io.Reader
}

// GeneratePassword returns a password of exactly length characters, each
// drawn independently and uniformly from base plus every flagged pool.
func GeneratePassword(length int, includeNumbers, includeExtendedLetters, includeSymbols bool) (string, error) {
	var g Generator
	return g.Generate(Request{
		Length:                 length,
		IncludeNumbers:         includeNumbers,
		IncludeExtendedLetters: includeExtendedLetters,
		IncludeSymbols:         includeSymbols,
	})
}

// Generate returns a password for req. A zero length yields "".
func (g *Generator) Generate(req Request) (string, error) {
	if req.Length < 0 {
		return "", fmt.Errorf("%w: %d is negative", ErrInvalidLength, req.Length)
	}
	if req.Length == 0 {
		return "", nil
	}

	alphabet := Alphabet(req)

	var sb strings.Builder
	sb.Grow(min(req.Length, growCap) * utf8.UTFMax)
	for i := 0; i < req.Length; i++ {
		idx, err := g.index(len(alphabet))
		if err != nil {
			return "", fmt.Errorf("draw character %d of %d: %w", i+1, req.Length, err)
		}
		sb.WriteRune(alphabet[idx])
	}
	return sb.String(), nil
}

// MaxBytes is the UTF-8 size of the longest password req can produce: the
// length times the widest rune of its alphabet. Negative lengths give 0.
func MaxBytes(req Request) int {
	if req.Length <= 0 {
		return 0
	}
	widest := 1
	for _, r := range Alphabet(req) {
		widest = max(widest, utf8.RuneLen(r))
	}
	return req.Length * widest
}

// index returns a uniform random int in [0, n).
func (g *Generator) index(n int) (int, error) {
	src := g.Source
	if src == nil {
		src = rand.Reader
	}
	v, err := rand.Int(src, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// ParseLength converts user-entered text into a length. Anything that is
// not a non-negative whole number is ErrInvalidLength.
func ParseLength(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidLength, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidLength, n)
	}
	return n, nil
}
