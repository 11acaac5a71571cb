// pkg/password/pools.go

package password

import (
	"golang.org/x/text/unicode/norm"
)

// PoolName identifies one of the fixed character pools.
type PoolName string

const (
	PoolBase            PoolName = "base"
	PoolNumbers         PoolName = "numbers"
	PoolExtendedLetters PoolName = "extendedLetters"
	PoolSymbols         PoolName = "symbols"
)

// Pool is an ordered, immutable sequence of single characters eligible for
// selection. Callers must not modify the runes returned by Runes.
type Pool struct {
	name  PoolName
	runes []rune
}

// newPool normalises s to NFC so every accented letter is one precomposed rune.
func newPool(name PoolName, s string) Pool {
	return Pool{name: name, runes: []rune(norm.NFC.String(s))}
}

func (p Pool) Name() PoolName { return p.name }

// Len is the number of characters (not bytes) in the pool.
func (p Pool) Len() int { return len(p.runes) }

func (p Pool) String() string { return string(p.runes) }

// Runes returns a copy of the pool's characters.
func (p Pool) Runes() []rune {
	out := make([]rune, len(p.runes))
	copy(out, p.runes)
	return out
}

// Contains reports whether r is one of the pool's characters.
func (p Pool) Contains(r rune) bool {
	for _, c := range p.runes {
		if c == r {
			return true
		}
	}
	return false
}

var (
	baseChars = newPool(PoolBase, "ABCDEFGHIJKLMNOPQRSTUVWXTZabcdefghiklmnopqrstuvwxyz")
	numbers   = newPool(PoolNumbers, "0123456789")
	// Czech accented lowercase letters.
	extendedLetters = newPool(PoolExtendedLetters, "ěščřžýáíéů")
	symbols         = newPool(PoolSymbols, "+@#$%^&*()-_=[{]};:|,<.>/?~")
)

// Base is always part of the active alphabet.
func Base() Pool { return baseChars }

func Numbers() Pool { return numbers }

func ExtendedLetters() Pool { return extendedLetters }

func Symbols() Pool { return symbols }

// Pools returns the full table in selection order: base, numbers,
// extendedLetters, symbols.
func Pools() []Pool {
	return []Pool{baseChars, numbers, extendedLetters, symbols}
}

// ActivePools returns the pools enabled by req, base first.
func ActivePools(req Request) []Pool {
	active := []Pool{baseChars}
	if req.IncludeNumbers {
		active = append(active, numbers)
	}
	if req.IncludeExtendedLetters {
		active = append(active, extendedLetters)
	}
	if req.IncludeSymbols {
		active = append(active, symbols)
	}
	return active
}

// AlphabetFor concatenates pools into a fresh slice. It fails with
// ErrEmptyAlphabet when the result would have nothing to draw from.
func AlphabetFor(pools ...Pool) ([]rune, error) {
	n := 0
	for _, p := range pools {
		n += p.Len()
	}
	if n == 0 {
		return nil, ErrEmptyAlphabet
	}
	alphabet := make([]rune, 0, n)
	for _, p := range pools {
		alphabet = append(alphabet, p.runes...)
	}
	return alphabet, nil
}

// Alphabet is the active alphabet for req.
func Alphabet(req Request) []rune {
	// base is never empty, so the error path is unreachable here
	alphabet, _ := AlphabetFor(ActivePools(req)...)
	return alphabet
}
