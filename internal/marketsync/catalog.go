package marketsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"radeya/internal/moysklad"
	"radeya/internal/store"
)

type CatalogSyncerConfig struct {
	PageSize    int
	Concurrency int
	Retry       RetryPolicy
	// ImageFetchInterval paces miniature lookups; the ERP rate-limits the
	// images endpoint well below the product listing.
	ImageFetchInterval time.Duration
}

// CatalogSyncer walks the ERP product feed and upserts catalog items by
// their ERP id. Preview images are fetched only for products that have none
// cached, paced by a rate limiter and deduplicated per href.
type CatalogSyncer struct {
	source  ProductSource
	store   ProductStore
	cfg     CatalogSyncerConfig
	limiter *rate.Limiter
	flight  singleflight.Group
	logger  *log.Logger
}

func NewCatalogSyncer(source ProductSource, st ProductStore, cfg CatalogSyncerConfig, logger *log.Logger) *CatalogSyncer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.ImageFetchInterval <= 0 {
		cfg.ImageFetchInterval = 200 * time.Millisecond
	}
	return &CatalogSyncer{
		source:  source,
		store:   st,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.ImageFetchInterval), 1),
		logger:  logger,
	}
}

// Sync pulls the full product feed and upserts every row. An image fetch
// failure is swallowed per product (the row is upserted without an image);
// a listing or upsert failure aborts the run.
func (s *CatalogSyncer) Sync(ctx context.Context) (CatalogStats, error) {
	var stats CatalogStats

	products, err := WalkPages(ctx, s.cfg.PageSize, func(ctx context.Context, page, size int) (Page[moysklad.Product], error) {
		offset := page * size
		p, err := Retry(ctx, s.cfg.Retry, func(ctx context.Context) (moysklad.ProductsPage, error) {
			return s.source.ListProducts(ctx, size, offset)
		})
		if err != nil {
			return Page[moysklad.Product]{}, err
		}
		return Page[moysklad.Product]{
			Items:   p.Rows,
			HasNext: offset+len(p.Rows) < p.Meta.Size,
		}, nil
	})
	if err != nil {
		return stats, fmt.Errorf("list products: %w", err)
	}
	stats.Products = len(products)

	var imagesFetched, imagesFailed atomic.Int64
	normalized, err := MapLimit(ctx, products, s.cfg.Concurrency, func(ctx context.Context, p moysklad.Product) (store.Product, error) {
		imageURL, err := s.resolveImage(ctx, p)
		if err != nil {
			imagesFailed.Add(1)
			s.logger.Printf("[sync] miniature not fetched for product %s: %v", p.ID, err)
			imageURL = ""
		} else if imageURL != "" {
			imagesFetched.Add(1)
		}
		return normalizeProduct(p, imageURL), nil
	})
	if err != nil {
		return stats, err
	}
	stats.Images = int(imagesFetched.Load())
	stats.ImageFailed = int(imagesFailed.Load())

	for _, rec := range normalized {
		if err := s.store.UpsertProduct(ctx, rec); err != nil {
			return stats, fmt.Errorf("upsert product %s: %w", rec.MSID, err)
		}
		stats.Upserted++
	}

	s.logger.Printf("[sync] catalog: %d products, %d images fetched, %d image failures",
		stats.Products, stats.Images, stats.ImageFailed)
	return stats, nil
}

// resolveImage returns the cached preview URL when one exists, otherwise
// fetches the miniature from the ERP. Lookups for the same href are
// collapsed and paced by the limiter.
func (s *CatalogSyncer) resolveImage(ctx context.Context, p moysklad.Product) (string, error) {
	if cached, ok, err := s.store.ProductImageURL(ctx, p.ID); err != nil {
		return "", err
	} else if ok {
		return cached, nil
	}

	href := p.ImagesHref()
	if href == "" {
		return "", nil
	}

	v, err, _ := s.flight.Do(href, func() (any, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
		return Retry(ctx, s.cfg.Retry, func(ctx context.Context) (string, error) {
			return s.source.MiniatureURL(ctx, href)
		})
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func normalizeProduct(p moysklad.Product, imageURL string) store.Product {
	rec := store.Product{
		MSID:     p.ID,
		Article:  optString(p.Code),
		Name:     p.Name,
		ImageURL: optString(imageURL),
	}

	if p.BuyPrice != nil {
		rec.PurchasePriceMinor = optMoneyMinor(p.BuyPrice.Value)
	}
	for _, sp := range p.SalePrices {
		name := strings.ToLower(sp.PriceType.Name)
		if strings.Contains(name, "касп") || strings.Contains(name, "kaspi") {
			rec.KaspiPriceMinor = optMoneyMinor(sp.Value)
			break
		}
	}

	for _, attr := range p.Attributes {
		switch attr.Type {
		case "long":
			supplier, err := json.Marshal(map[string]any{
				"name":  attr.Name,
				"count": attr.Value,
			})
			if err == nil && rec.Supplier == nil {
				rec.Supplier = supplier
			}
		case "link":
			if link, ok := attr.Value.(string); ok && rec.KaspiLink == nil {
				rec.KaspiLink = optString(link)
			}
		}
	}

	if t, err := time.Parse(moysklad.UpdatedLayout, p.Updated); err == nil {
		rec.SourceUpdatedAt = &t
	}
	return rec
}

// optMoneyMinor keeps an ERP amount in minor units (tiyn) as reported.
func optMoneyMinor(v float64) *int64 {
	if v == 0 {
		return nil
	}
	amount := int64(math.Round(v))
	return &amount
}
