package marketsync

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"radeya/internal/moysklad"
	"radeya/internal/store"
)

type fakeProductSource struct {
	mu             sync.Mutex
	products       []moysklad.Product
	miniatureCalls map[string]int
	failMiniature  bool
}

func (f *fakeProductSource) ListProducts(_ context.Context, limit, offset int) (moysklad.ProductsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset >= len(f.products) {
		return moysklad.ProductsPage{Meta: moysklad.Meta{Size: len(f.products)}}, nil
	}
	hi := offset + limit
	if hi > len(f.products) {
		hi = len(f.products)
	}
	return moysklad.ProductsPage{
		Rows: f.products[offset:hi],
		Meta: moysklad.Meta{Size: len(f.products), Limit: limit, Offset: offset},
	}, nil
}

func (f *fakeProductSource) MiniatureURL(_ context.Context, imagesHref string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.miniatureCalls == nil {
		f.miniatureCalls = make(map[string]int)
	}
	f.miniatureCalls[imagesHref]++
	if f.failMiniature {
		return "", &transientErr{retryable: false}
	}
	return imagesHref + "/miniature.jpg", nil
}

type fakeProductStore struct {
	mu       sync.Mutex
	products map[string]store.Product
	cached   map[string]string
}

func (f *fakeProductStore) UpsertProduct(_ context.Context, p store.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.products == nil {
		f.products = make(map[string]store.Product)
	}
	f.products[p.MSID] = p
	return nil
}

func (f *fakeProductStore) ProductImageURL(_ context.Context, msID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	url, ok := f.cached[msID]
	return url, ok && url != "", nil
}

func makeProduct(id, code, name string, imageHref string) moysklad.Product {
	p := moysklad.Product{
		ID:       id,
		Name:     name,
		Code:     code,
		Updated:  "2025-05-01 10:30:00.000",
		BuyPrice: &moysklad.Price{Value: 150050},
	}
	p.SalePrices = []moysklad.Price{{Value: 250000}}
	p.SalePrices[0].PriceType.Name = "Цена Kaspi"
	if imageHref != "" {
		p.Images = &moysklad.ImagesRef{}
		p.Images.Meta.Href = imageHref
	}
	return p
}

func TestCatalogSyncer_WalksOffsetPagesAndUpserts(t *testing.T) {
	t.Parallel()

	source := &fakeProductSource{}
	for i := 0; i < 23; i++ {
		source.products = append(source.products,
			makeProduct(fmt.Sprintf("ms-%02d", i), fmt.Sprintf("AB%03d", i), "Товар", ""))
	}
	st := &fakeProductStore{}

	syncer := NewCatalogSyncer(source, st, CatalogSyncerConfig{
		PageSize:           10,
		Concurrency:        3,
		Retry:              fastPolicy(2),
		ImageFetchInterval: 1,
	}, nil)

	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if stats.Products != 23 || stats.Upserted != 23 || len(st.products) != 23 {
		t.Fatalf("stats = %+v, unique = %d, want 23 everywhere", stats, len(st.products))
	}

	rec := st.products["ms-05"]
	if rec.Article == nil || *rec.Article != "AB005" {
		t.Fatalf("article = %v, want AB005", rec.Article)
	}
	// ERP prices stay in minor units.
	if rec.PurchasePriceMinor == nil || *rec.PurchasePriceMinor != 150050 {
		t.Fatalf("purchase minor = %v, want 150050", rec.PurchasePriceMinor)
	}
	if rec.KaspiPriceMinor == nil || *rec.KaspiPriceMinor != 250000 {
		t.Fatalf("kaspi minor = %v, want 250000", rec.KaspiPriceMinor)
	}
	if rec.SourceUpdatedAt == nil {
		t.Fatal("SourceUpdatedAt not parsed")
	}
}

func TestCatalogSyncer_FetchesImagesOnlyWhenMissing(t *testing.T) {
	t.Parallel()

	source := &fakeProductSource{products: []moysklad.Product{
		makeProduct("ms-a", "AA001", "Смартфон", "https://erp/img/a"),
		makeProduct("ms-b", "AA002", "Ноутбук", "https://erp/img/b"),
	}}
	st := &fakeProductStore{cached: map[string]string{"ms-a": "https://cdn/a.jpg"}}

	syncer := NewCatalogSyncer(source, st, CatalogSyncerConfig{
		Retry:              fastPolicy(2),
		ImageFetchInterval: 1,
	}, nil)

	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if source.miniatureCalls["https://erp/img/a"] != 0 {
		t.Fatal("cached image was fetched again")
	}
	if source.miniatureCalls["https://erp/img/b"] != 1 {
		t.Fatalf("miniature calls for b = %d, want 1", source.miniatureCalls["https://erp/img/b"])
	}
	if stats.Images != 1 {
		t.Fatalf("stats.Images = %d, want 1", stats.Images)
	}
	if got := st.products["ms-a"].ImageURL; got == nil || *got != "https://cdn/a.jpg" {
		t.Fatalf("ms-a image = %v, want cached URL", got)
	}
}

func TestCatalogSyncer_ImageFailureDoesNotAbortRun(t *testing.T) {
	t.Parallel()

	source := &fakeProductSource{
		products:      []moysklad.Product{makeProduct("ms-x", "AX001", "Часы", "https://erp/img/x")},
		failMiniature: true,
	}
	st := &fakeProductStore{}

	syncer := NewCatalogSyncer(source, st, CatalogSyncerConfig{
		Retry:              fastPolicy(2),
		ImageFetchInterval: 1,
	}, nil)

	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v, image failures must be swallowed", err)
	}
	if stats.ImageFailed != 1 || stats.Upserted != 1 {
		t.Fatalf("stats = %+v, want 1 failure and 1 upsert", stats)
	}
	if got := st.products["ms-x"].ImageURL; got != nil {
		t.Fatalf("image = %v, want nil after fetch failure", got)
	}
}

func TestNormalizeProduct_Attributes(t *testing.T) {
	t.Parallel()

	p := makeProduct("ms-y", "AY001", "Планшет", "")
	p.Attributes = []moysklad.Attribute{
		{Type: "long", Name: "Поставщик А", Value: float64(12)},
		{Type: "link", Name: "Kaspi", Value: "https://kaspi.kz/shop/p/y"},
	}

	rec := normalizeProduct(p, "")
	if rec.Supplier == nil {
		t.Fatal("supplier attribute not captured")
	}
	if rec.KaspiLink == nil || *rec.KaspiLink != "https://kaspi.kz/shop/p/y" {
		t.Fatalf("kaspi link = %v", rec.KaspiLink)
	}
}
