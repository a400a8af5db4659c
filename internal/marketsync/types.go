// Package marketsync pulls orders and catalog data from the marketplace and
// ERP APIs and upserts them into the store: time-window splitting for the
// marketplace's range ceiling, page walking, a bounded worker pool for
// per-item detail fetches, and retry with backoff on transient failures.
package marketsync

import (
	"context"

	"radeya/internal/kaspi"
	"radeya/internal/moysklad"
	"radeya/internal/store"
)

type OrderSource interface {
	ListOrders(ctx context.Context, page, size int, fromMillis, toMillis int64) (kaspi.OrdersPage, error)
	ListOrderEntries(ctx context.Context, orderID string, page, size int) (kaspi.EntriesPage, error)
}

type CategorySource interface {
	ListCategories(ctx context.Context) ([]kaspi.Category, error)
}

type ProductSource interface {
	ListProducts(ctx context.Context, limit, offset int) (moysklad.ProductsPage, error)
	MiniatureURL(ctx context.Context, imagesHref string) (string, error)
}

type OrderStore interface {
	UpsertOrder(ctx context.Context, o store.Order) error
}

type ProductStore interface {
	UpsertProduct(ctx context.Context, p store.Product) error
	ProductImageURL(ctx context.Context, msID string) (string, bool, error)
}

type CategoryStore interface {
	UpsertCategory(ctx context.Context, c store.Category) error
}

type OrderStats struct {
	Windows  int
	Orders   int
	Upserted int
}

type CatalogStats struct {
	Products    int
	Images      int
	ImageFailed int
	Upserted    int
}

type CategoryStats struct {
	Categories int
	Upserted   int
}

type Summary struct {
	Orders     OrderStats
	Catalog    CatalogStats
	Categories CategoryStats
}
