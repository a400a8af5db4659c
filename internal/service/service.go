// Package service holds the application logic behind the HTTP handlers:
// account management, catalog and order queries, accounting periods, article
// allocation, uploads, and marketplace import passthrough.
package service

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"radeya/internal/auth"
	"radeya/internal/kaspi"
	"radeya/internal/storage"
	"radeya/internal/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

type UserStore interface {
	CreateUser(ctx context.Context, login, passwordHash, role string) (store.User, error)
	GetUserByLogin(ctx context.Context, login string) (store.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error)
}

type ProductStore interface {
	ListProducts(ctx context.Context, search string, limit, offset int) ([]store.Product, int, error)
	ListCategories(ctx context.Context) ([]store.Category, error)
}

type OrderStore interface {
	ListOrders(ctx context.Context, fromMillis, toMillis int64, limit, offset int) ([]store.Order, int, error)
	CountOrdersInRange(ctx context.Context, fromMillis, toMillis int64) (int, error)
}

type AccountingStore interface {
	UpsertAccountingPeriod(ctx context.Context, period time.Time, periodType string) error
	ListAccountingPeriods(ctx context.Context, limit, offset int) ([]store.AccountingPeriod, int, error)
}

// Importer submits product batches to the marketplace and polls their status.
type Importer interface {
	SubmitImport(ctx context.Context, payload []byte) (kaspi.ImportResult, error)
	ImportStatus(ctx context.Context, importID string) (kaspi.ImportResult, error)
}

// ArticleAllocator hands out unused product codes.
type ArticleAllocator interface {
	Allocate(ctx context.Context, seedName string, count int) ([]string, error)
}

type Deps struct {
	Users      UserStore
	Products   ProductStore
	Orders     OrderStore
	Accounting AccountingStore
	Importer   Importer
	Articles   ArticleAllocator
	Blobs      storage.BlobStorage
	Tokens     *auth.Manager
}

type Config struct {
	// Location is the business timezone; accounting months are cut on its
	// midnights.
	Location        *time.Location
	UploadKeyPrefix string
	MaxUploadBytes  int64
}

type Service struct {
	users      UserStore
	products   ProductStore
	orders     OrderStore
	accounting AccountingStore
	importer   Importer
	articles   ArticleAllocator
	blobs      storage.BlobStorage
	tokens     *auth.Manager

	loc       *time.Location
	keyPrefix string
	maxUpload int64
	logger    *log.Logger
}

func New(deps Deps, cfg Config, logger *log.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:      deps.Users,
		products:   deps.Products,
		orders:     deps.Orders,
		accounting: deps.Accounting,
		importer:   deps.Importer,
		articles:   deps.Articles,
		blobs:      deps.Blobs,
		tokens:     deps.Tokens,
		loc:        cfg.Location,
		keyPrefix:  cfg.UploadKeyPrefix,
		maxUpload:  cfg.MaxUploadBytes,
		logger:     logger,
	}
}

// pageToOffset converts 1-based page params into a limit/offset pair with
// sane bounds.
func pageToOffset(page, size int) (limit, offset int) {
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	if page <= 0 {
		page = 1
	}
	return size, (page - 1) * size
}
