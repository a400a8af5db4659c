// Package article generates short unique product codes: a two-letter prefix
// derived from the product name plus a random three-digit suffix, checked
// against the store before being handed out.
package article

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// ErrExhausted is returned when too many consecutive candidates collide with
// existing codes, which means the suffix space for the prefix is close to
// saturated.
var ErrExhausted = errors.New("article code space exhausted for prefix")

// CodeChecker answers whether a code is already taken, counting
// hyphen-suffixed variants ("MB329-1") as taken.
type CodeChecker interface {
	ArticleCodeExists(ctx context.Context, code string) (bool, error)
}

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Letters that read ambiguously on printed labels are never used as the
// second prefix letter.
var excludedSecondLetters = map[rune]bool{
	'G': true, 'J': true, 'I': true, 'L': true, 'Y': true,
}

// translit maps Cyrillic initials to their Latin counterparts for the first
// prefix letter.
var translit = map[rune]rune{
	'А': 'A', 'Б': 'B', 'В': 'V', 'Г': 'G', 'Д': 'D', 'Е': 'E', 'Ё': 'E', 'Ж': 'Z',
	'З': 'Z', 'И': 'I', 'Й': 'Y', 'К': 'K', 'Л': 'L', 'М': 'M', 'Н': 'N', 'О': 'O',
	'П': 'P', 'Р': 'R', 'С': 'S', 'Т': 'T', 'У': 'U', 'Ф': 'F', 'Х': 'H', 'Ц': 'C',
	'Ч': 'C', 'Ш': 'S', 'Щ': 'S', 'Ы': 'Y', 'Э': 'E', 'Ю': 'U', 'Я': 'A',
}

type Allocator struct {
	checker CodeChecker
	// maxRejections bounds consecutive collisions before giving up. The
	// reference system looped forever; see DESIGN.md.
	maxRejections int
	rng           *rand.Rand
}

func NewAllocator(checker CodeChecker, maxRejections int, rng *rand.Rand) *Allocator {
	if maxRejections <= 0 {
		maxRejections = 1000
	}
	return &Allocator{
		checker:       checker,
		maxRejections: maxRejections,
		rng:           rng,
	}
}

// FirstLetter transliterates the first character of name into the Latin
// alphabet. Characters already in A-Z pass through; anything unmapped falls
// back to 'X'.
func FirstLetter(name string) rune {
	for _, r := range strings.TrimSpace(name) {
		upper := unicode.ToUpper(r)
		if upper >= 'A' && upper <= 'Z' {
			return upper
		}
		if mapped, ok := translit[upper]; ok {
			return mapped
		}
		break
	}
	return 'X'
}

func (a *Allocator) secondLetter(first rune) rune {
	allowed := make([]rune, 0, len(letters))
	for _, l := range letters {
		if l == first || excludedSecondLetters[l] {
			continue
		}
		allowed = append(allowed, l)
	}
	return allowed[a.intn(len(allowed))]
}

func (a *Allocator) intn(n int) int {
	if a.rng != nil {
		return a.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Allocate returns count distinct codes sharing one prefix derived from
// seedName. Every candidate is rejected if it duplicates one from this batch
// or if the store holds the code or a hyphen-suffixed variant of it.
func (a *Allocator) Allocate(ctx context.Context, seedName string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive")
	}

	first := FirstLetter(seedName)
	prefix := string(first) + string(a.secondLetter(first))

	codes := make([]string, 0, count)
	taken := make(map[string]bool, count)
	rejected := 0

	for len(codes) < count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidate := fmt.Sprintf("%s%03d", prefix, a.intn(1000))

		if taken[candidate] {
			rejected++
			if rejected >= a.maxRejections {
				return nil, fmt.Errorf("%w %s", ErrExhausted, prefix)
			}
			continue
		}

		exists, err := a.checker.ArticleCodeExists(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if exists {
			rejected++
			if rejected >= a.maxRejections {
				return nil, fmt.Errorf("%w %s", ErrExhausted, prefix)
			}
			continue
		}

		taken[candidate] = true
		codes = append(codes, candidate)
		rejected = 0
	}
	return codes, nil
}
