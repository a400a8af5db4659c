package store

import (
	"context"
	"encoding/json"
	"time"
)

// Product is the local copy of an ERP catalog item, keyed by the ERP id.
// Money fields hold minor units (tiyn) exactly as the ERP reports them;
// conversion to tenge happens only at presentation time.
type Product struct {
	MSID               string
	Article            *string
	Name               string
	ImageURL           *string
	Supplier           json.RawMessage
	PurchasePriceMinor *int64
	KaspiPriceMinor    *int64
	KaspiLink          *string
	SourceUpdatedAt    *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UpsertProduct inserts or fully replaces the named fields of the product
// row identified by ms_id. The write is atomic per record.
func (s *Store) UpsertProduct(ctx context.Context, p Product) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO products (
			ms_id, article, name, image_url, supplier,
			purchase_price_minor, kaspi_price_minor, kaspi_link, source_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ms_id) DO UPDATE SET
			article = EXCLUDED.article,
			name = EXCLUDED.name,
			image_url = COALESCE(EXCLUDED.image_url, products.image_url),
			supplier = EXCLUDED.supplier,
			purchase_price_minor = EXCLUDED.purchase_price_minor,
			kaspi_price_minor = EXCLUDED.kaspi_price_minor,
			kaspi_link = EXCLUDED.kaspi_link,
			source_updated_at = EXCLUDED.source_updated_at,
			updated_at = now()
	`, p.MSID, p.Article, p.Name, p.ImageURL, p.Supplier,
		p.PurchasePriceMinor, p.KaspiPriceMinor, p.KaspiLink, p.SourceUpdatedAt)
	return err
}

// ProductImageURL returns the cached preview image URL for the given ERP id,
// or ok=false when the product is unknown or has no image yet.
func (s *Store) ProductImageURL(ctx context.Context, msID string) (string, bool, error) {
	var url *string
	err := s.db.QueryRow(ctx, `
		SELECT image_url FROM products WHERE ms_id = $1
	`, msID).Scan(&url)
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if url == nil || *url == "" {
		return "", false, nil
	}
	return *url, true, nil
}

// ArticleCodeExists reports whether any product already uses the code, either
// exactly or as a hyphen-suffixed variant (e.g. "MB329" matches "MB329-1").
func (s *Store) ArticleCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE upper(article) = upper($1)
			   OR upper(article) LIKE upper($1) || '-%'
		)
	`, code).Scan(&exists)
	return exists, err
}

// ListProducts returns one page of products sorted by latest update, with an
// optional case-insensitive search over name and article, plus the total
// count matching the filter.
func (s *Store) ListProducts(ctx context.Context, search string, limit, offset int) ([]Product, int, error) {
	pattern := "%" + search + "%"
	where := `WHERE ($1 = '%%' OR name ILIKE $1 OR article ILIKE $1)`

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM products `+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT ms_id, article, name, image_url, supplier,
		       purchase_price_minor, kaspi_price_minor, kaspi_link,
		       source_updated_at, created_at, updated_at
		FROM products `+where+`
		ORDER BY updated_at DESC, ms_id DESC
		LIMIT $2 OFFSET $3
	`, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.MSID, &p.Article, &p.Name, &p.ImageURL, &p.Supplier,
			&p.PurchasePriceMinor, &p.KaspiPriceMinor, &p.KaspiLink,
			&p.SourceUpdatedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Category is a marketplace classification code.
type Category struct {
	Code  string
	Title string
}

func (s *Store) UpsertCategory(ctx context.Context, c Category) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO categories (code, title)
		VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET
			title = EXCLUDED.title,
			updated_at = now()
	`, c.Code, c.Title)
	return err
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, `SELECT code, title FROM categories ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Code, &c.Title); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
