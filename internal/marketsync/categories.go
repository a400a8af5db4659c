package marketsync

import (
	"context"
	"fmt"
	"io"
	"log"

	"radeya/internal/kaspi"
	"radeya/internal/store"
)

// CategorySyncer mirrors the marketplace classification codes into the
// store. The endpoint is small and not paginated.
type CategorySyncer struct {
	source CategorySource
	store  CategoryStore
	retry  RetryPolicy
	logger *log.Logger
}

func NewCategorySyncer(source CategorySource, st CategoryStore, retry RetryPolicy, logger *log.Logger) *CategorySyncer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CategorySyncer{
		source: source,
		store:  st,
		retry:  retry,
		logger: logger,
	}
}

func (s *CategorySyncer) Sync(ctx context.Context) (CategoryStats, error) {
	var stats CategoryStats

	categories, err := Retry(ctx, s.retry, func(ctx context.Context) ([]kaspi.Category, error) {
		return s.source.ListCategories(ctx)
	})
	if err != nil {
		return stats, fmt.Errorf("list categories: %w", err)
	}
	stats.Categories = len(categories)

	for _, c := range categories {
		if c.Code == "" {
			continue
		}
		if err := s.store.UpsertCategory(ctx, store.Category{Code: c.Code, Title: c.Title}); err != nil {
			return stats, fmt.Errorf("upsert category %s: %w", c.Code, err)
		}
		stats.Upserted++
	}

	s.logger.Printf("[sync] categories: %d upserted", stats.Upserted)
	return stats, nil
}
