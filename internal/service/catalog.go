package service

import (
	"context"
	"strings"

	"radeya/internal/store"
)

// ProductPage is one page of catalog results.
type ProductPage struct {
	Items    []store.Product
	Total    int
	Page     int
	PageSize int
}

// ListProducts returns one page of the local catalog, optionally filtered by
// a case-insensitive substring match over name and article.
func (s *Service) ListProducts(ctx context.Context, search string, page, size int) (ProductPage, error) {
	limit, offset := pageToOffset(page, size)
	items, total, err := s.products.ListProducts(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Items:    items,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}

// ListCategories returns the mirrored marketplace classification codes,
// sorted by code.
func (s *Service) ListCategories(ctx context.Context) ([]store.Category, error) {
	return s.products.ListCategories(ctx)
}

// OrderPage is one page of order results.
type OrderPage struct {
	Items    []store.Order
	Total    int
	Page     int
	PageSize int
}

// ListOrders returns orders created within [fromMillis, toMillis), newest
// first. A zero toMillis means no upper bound.
func (s *Service) ListOrders(ctx context.Context, fromMillis, toMillis int64, page, size int) (OrderPage, error) {
	limit, offset := pageToOffset(page, size)
	items, total, err := s.orders.ListOrders(ctx, fromMillis, toMillis, limit, offset)
	if err != nil {
		return OrderPage{}, err
	}
	return OrderPage{
		Items:    items,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}
