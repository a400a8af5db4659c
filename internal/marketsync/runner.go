package marketsync

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

// ErrSyncInProgress is returned when a run is triggered while another run is
// still active. Overlapping runs would double every remote call, so only one
// run may be in flight per process.
var ErrSyncInProgress = errors.New("sync already in progress")

type orderSyncRunner interface {
	Sync(ctx context.Context, from, to time.Time) (OrderStats, error)
}

type catalogSyncRunner interface {
	Sync(ctx context.Context) (CatalogStats, error)
}

type categorySyncRunner interface {
	Sync(ctx context.Context) (CategoryStats, error)
}

type RunnerConfig struct {
	// OrderLookback is how far back each run re-syncs orders from now.
	OrderLookback time.Duration
}

// Runner drives one full sync pass: categories, catalog, then orders over
// the lookback range. One pass at a time; a syncer failure is collected and
// the remaining syncers still run.
type Runner struct {
	orders     orderSyncRunner
	catalog    catalogSyncRunner
	categories categorySyncRunner
	cfg        RunnerConfig
	logger     *log.Logger
	now        func() time.Time

	mu      sync.Mutex
	running bool
}

func NewRunner(orders orderSyncRunner, catalog catalogSyncRunner, categories categorySyncRunner, cfg RunnerConfig, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.OrderLookback <= 0 {
		cfg.OrderLookback = 30 * 24 * time.Hour
	}
	return &Runner{
		orders:     orders,
		catalog:    catalog,
		categories: categories,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Running reports whether a sync pass is currently in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run executes one sync pass and returns the aggregated summary. It refuses
// to overlap with an in-flight pass.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return Summary{}, ErrSyncInProgress
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	r.logger.Printf("[sync] starting sync run")

	var (
		summary Summary
		joined  error
	)

	if r.categories != nil {
		stats, err := r.categories.Sync(ctx)
		summary.Categories = stats
		if err != nil {
			r.logger.Printf("[sync] categories failed: %v", err)
			joined = errors.Join(joined, err)
		}
	}

	if r.catalog != nil {
		stats, err := r.catalog.Sync(ctx)
		summary.Catalog = stats
		if err != nil {
			r.logger.Printf("[sync] catalog failed: %v", err)
			joined = errors.Join(joined, err)
		}
	}

	if r.orders != nil {
		to := r.now()
		from := to.Add(-r.cfg.OrderLookback)
		stats, err := r.orders.Sync(ctx, from, to)
		summary.Orders = stats
		if err != nil {
			r.logger.Printf("[sync] orders failed: %v", err)
			joined = errors.Join(joined, err)
		}
	}

	r.logger.Printf("[sync] sync run complete: orders=%d catalog=%d categories=%d",
		summary.Orders.Upserted, summary.Catalog.Upserted, summary.Categories.Upserted)

	return summary, joined
}
