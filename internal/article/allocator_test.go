package article

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

type fakeChecker struct {
	taken map[string]bool
	calls int
}

func (f *fakeChecker) ArticleCodeExists(_ context.Context, code string) (bool, error) {
	f.calls++
	if f.taken[strings.ToUpper(code)] {
		return true, nil
	}
	// Hyphen-suffixed variants count as taken, like the store query does.
	for t := range f.taken {
		if strings.HasPrefix(t, strings.ToUpper(code)+"-") {
			return true, nil
		}
	}
	return false, nil
}

var codePattern = regexp.MustCompile(`^[A-Z]{2}\d{3}$`)

func TestAllocator_BatchSharesPrefixAndIsDistinct(t *testing.T) {
	t.Parallel()

	a := NewAllocator(&fakeChecker{}, 0, rand.New(rand.NewSource(1)))
	codes, err := a.Allocate(context.Background(), "Смартфон", 5)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if len(codes) != 5 {
		t.Fatalf("len(codes) = %d, want 5", len(codes))
	}

	prefix := codes[0][:2]
	if prefix[0] != 'S' {
		t.Fatalf("prefix %q, want first letter S for Смартфон", prefix)
	}
	seen := map[string]bool{}
	for _, code := range codes {
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match LLDDD", code)
		}
		if code[:2] != prefix {
			t.Fatalf("code %q prefix differs from %q", code, prefix)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q in one batch", code)
		}
		seen[code] = true
	}
}

func TestAllocator_SecondLetterExclusions(t *testing.T) {
	t.Parallel()

	a := NewAllocator(&fakeChecker{}, 0, rand.New(rand.NewSource(7)))
	for i := 0; i < 50; i++ {
		codes, err := a.Allocate(context.Background(), "Ноутбук", 1)
		if err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
		second := rune(codes[0][1])
		if excludedSecondLetters[second] {
			t.Fatalf("code %q uses excluded second letter %c", codes[0], second)
		}
		if second == rune(codes[0][0]) {
			t.Fatalf("code %q repeats the first letter", codes[0])
		}
	}
}

func TestAllocator_SkipsStoreCollisions(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{taken: map[string]bool{}}
	// Seed every candidate except one small set so collisions must occur.
	a := NewAllocator(checker, 0, rand.New(rand.NewSource(3)))

	first, err := a.Allocate(context.Background(), "Телевизор", 3)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	for _, code := range first {
		checker.taken[code] = true
	}
	checker.taken[first[0]+"-1"] = true

	second, err := a.Allocate(context.Background(), "Телевизор", 3)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	for _, code := range second {
		if checker.taken[code] {
			t.Fatalf("code %q collides with an existing article", code)
		}
	}
}

func TestAllocator_HyphenVariantCountsAsTaken(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{taken: map[string]bool{"AB123-1": true}}
	exists, err := checker.ArticleCodeExists(context.Background(), "AB123")
	if err != nil || !exists {
		t.Fatalf("ArticleCodeExists(AB123) = %v, %v; want true", exists, err)
	}
}

func TestAllocator_ExhaustionIsBounded(t *testing.T) {
	t.Parallel()

	// Every candidate is taken, so allocation must give up instead of
	// spinning forever.
	alwaysTaken := checkerFunc(func(context.Context, string) (bool, error) { return true, nil })
	a := NewAllocator(alwaysTaken, 50, rand.New(rand.NewSource(9)))

	_, err := a.Allocate(context.Background(), "Пылесос", 1)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Allocate() error = %v, want ErrExhausted", err)
	}
}

type checkerFunc func(context.Context, string) (bool, error)

func (f checkerFunc) ArticleCodeExists(ctx context.Context, code string) (bool, error) {
	return f(ctx, code)
}

func TestFirstLetter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want rune
	}{
		{"Смартфон", 'S'},
		{"ноутбук", 'N'},
		{"Apple Watch", 'A'},
		{"  зарядка", 'Z'},
		{"Чайник", 'C'},
		{"12345", 'X'},
		{"", 'X'},
	}
	for _, tc := range cases {
		if got := FirstLetter(tc.name); got != tc.want {
			t.Errorf("FirstLetter(%q) = %c, want %c", tc.name, got, tc.want)
		}
	}
}
