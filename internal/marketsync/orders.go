package marketsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"radeya/internal/kaspi"
	"radeya/internal/store"
)

type OrderSyncerConfig struct {
	PageSize    int
	Concurrency int
	WindowSpan  time.Duration
	Retry       RetryPolicy
}

// OrderSyncer walks the marketplace order listing across time windows and
// pages, fans per-order entry fetches through the worker pool, and upserts
// normalized orders by their marketplace id.
type OrderSyncer struct {
	source OrderSource
	store  OrderStore
	cfg    OrderSyncerConfig
	logger *log.Logger
}

func NewOrderSyncer(source OrderSource, st OrderStore, cfg OrderSyncerConfig, logger *log.Logger) *OrderSyncer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.WindowSpan <= 0 {
		cfg.WindowSpan = 14 * 24 * time.Hour
	}
	return &OrderSyncer{
		source: source,
		store:  st,
		cfg:    cfg,
		logger: logger,
	}
}

// Sync pulls every order created within [from, to]. Re-running over the same
// range only updates fields; upserts are keyed by the marketplace id. The
// first fatal error aborts the run, keeping earlier upserts in place.
func (s *OrderSyncer) Sync(ctx context.Context, from, to time.Time) (OrderStats, error) {
	var stats OrderStats
	for _, win := range SplitRange(from, to, s.cfg.WindowSpan) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Windows++

		orders, err := WalkPages(ctx, s.cfg.PageSize, func(ctx context.Context, page, size int) (Page[kaspi.Order], error) {
			p, err := Retry(ctx, s.cfg.Retry, func(ctx context.Context) (kaspi.OrdersPage, error) {
				return s.source.ListOrders(ctx, page, size, win.FromMillis(), win.ToMillis())
			})
			if err != nil {
				return Page[kaspi.Order]{}, err
			}
			return Page[kaspi.Order]{Items: p.Orders, HasNext: p.HasNext}, nil
		})
		if err != nil {
			return stats, fmt.Errorf("list orders %s..%s: %w",
				win.From.Format(time.DateOnly), win.To.Format(time.DateOnly), err)
		}
		stats.Orders += len(orders)

		normalized, err := MapLimit(ctx, orders, s.cfg.Concurrency, func(ctx context.Context, o kaspi.Order) (store.Order, error) {
			entries, err := s.fetchEntries(ctx, o.ID)
			if err != nil {
				return store.Order{}, fmt.Errorf("order %s entries: %w", o.ID, err)
			}
			return normalizeOrder(o, entries)
		})
		if err != nil {
			return stats, err
		}

		for _, rec := range normalized {
			if err := s.store.UpsertOrder(ctx, rec); err != nil {
				return stats, fmt.Errorf("upsert order %s: %w", rec.KMID, err)
			}
			stats.Upserted++
		}

		s.logger.Printf("[sync] orders window %s..%s: %d orders",
			win.From.Format(time.DateOnly), win.To.Format(time.DateOnly), len(orders))
	}
	return stats, nil
}

func (s *OrderSyncer) fetchEntries(ctx context.Context, orderID string) ([]kaspi.Entry, error) {
	return WalkPages(ctx, s.cfg.PageSize, func(ctx context.Context, page, size int) (Page[kaspi.Entry], error) {
		p, err := Retry(ctx, s.cfg.Retry, func(ctx context.Context) (kaspi.EntriesPage, error) {
			return s.source.ListOrderEntries(ctx, orderID, page, size)
		})
		if err != nil {
			return Page[kaspi.Entry]{}, err
		}
		return Page[kaspi.Entry]{Items: p.Entries, HasNext: p.HasNext}, nil
	})
}

func normalizeOrder(o kaspi.Order, entries []kaspi.Entry) (store.Order, error) {
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return store.Order{}, fmt.Errorf("marshal entries: %w", err)
	}

	a := o.Attributes
	return store.Order{
		KMID:               o.ID,
		Code:               optString(a.Code),
		CreationDateMillis: optInt64(a.CreationDate),
		TotalPriceKZT:      optMoneyKZT(a.TotalPrice),
		DeliveryCostKZT:    optMoneyKZT(a.DeliveryCostForSeller),
		State:              optString(a.State),
		Status:             optString(a.Status),
		IsKaspiDelivery:    a.IsKaspiDelivery,
		PreOrder:           a.PreOrder,
		SignatureRequired:  a.SignatureRequired,
		Assembled:          a.Assembled,
		PaymentMode:        optString(a.PaymentMode),
		DeliveryMode:       optString(a.DeliveryMode),
		Customer:           a.Customer,
		DeliveryAddress:    a.DeliveryAddress,
		KaspiDelivery:      a.KaspiDelivery,
		Entries:            entriesJSON,
	}, nil
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optInt64(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

// optMoneyKZT rounds a marketplace amount to whole tenge.
func optMoneyKZT(v float64) *int64 {
	if v == 0 {
		return nil
	}
	amount := int64(math.Round(v))
	return &amount
}
