package service

import (
	"context"
	"errors"
	"testing"

	"radeya/internal/article"
)

type fakeAllocator struct {
	codes []string
	err   error
}

func (f *fakeAllocator) Allocate(_ context.Context, seedName string, count int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.codes[:count], nil
}

func TestAllocateArticles(t *testing.T) {
	t.Parallel()

	svc := New(Deps{Articles: &fakeAllocator{codes: []string{"SB123", "SB456", "SB789"}}}, Config{}, nil)
	ctx := context.Background()

	codes, err := svc.AllocateArticles(ctx, "Смартфон", 2)
	if err != nil {
		t.Fatalf("AllocateArticles() error = %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("codes = %v", codes)
	}

	if _, err := svc.AllocateArticles(ctx, "  ", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AllocateArticles(ctx, "x", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero count error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AllocateArticles(ctx, "x", 101); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("oversized count error = %v, want ErrInvalidInput", err)
	}
}

func TestAllocateArticles_ExhaustionMapsToConflict(t *testing.T) {
	t.Parallel()

	svc := New(Deps{Articles: &fakeAllocator{err: article.ErrExhausted}}, Config{}, nil)
	if _, err := svc.AllocateArticles(context.Background(), "Смартфон", 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}
