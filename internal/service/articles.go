package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"radeya/internal/article"
)

const maxArticleBatch = 100

// AllocateArticles returns count fresh product codes derived from the given
// product name.
func (s *Service) AllocateArticles(ctx context.Context, seedName string, count int) ([]string, error) {
	seedName = strings.TrimSpace(seedName)
	if seedName == "" {
		return nil, fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if count <= 0 || count > maxArticleBatch {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidInput, maxArticleBatch)
	}

	codes, err := s.articles.Allocate(ctx, seedName, count)
	if err != nil {
		if errors.Is(err, article.ErrExhausted) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}
	return codes, nil
}
