package store

import (
	"context"
	"encoding/json"
	"time"
)

// Order is the local copy of a marketplace order, keyed by the marketplace
// id. Money fields are whole tenge, exactly as the marketplace reports them.
// Nested payloads (customer, addresses, line items) are kept as JSONB.
type Order struct {
	KMID               string
	Code               *string
	CreationDateMillis *int64
	TotalPriceKZT      *int64
	DeliveryCostKZT    *int64
	State              *string
	Status             *string
	IsKaspiDelivery    bool
	PreOrder           bool
	SignatureRequired  bool
	Assembled          bool
	PaymentMode        *string
	DeliveryMode       *string
	Customer           json.RawMessage
	DeliveryAddress    json.RawMessage
	KaspiDelivery      json.RawMessage
	Entries            json.RawMessage
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UpsertOrder inserts or fully replaces the named fields of the order row
// identified by km_id.
func (s *Store) UpsertOrder(ctx context.Context, o Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (
			km_id, code, creation_date_ms, total_price_kzt, delivery_cost_kzt,
			state, status, is_kaspi_delivery, pre_order, signature_required,
			assembled, payment_mode, delivery_mode,
			customer, delivery_address, kaspi_delivery, entries
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (km_id) DO UPDATE SET
			code = EXCLUDED.code,
			creation_date_ms = EXCLUDED.creation_date_ms,
			total_price_kzt = EXCLUDED.total_price_kzt,
			delivery_cost_kzt = EXCLUDED.delivery_cost_kzt,
			state = EXCLUDED.state,
			status = EXCLUDED.status,
			is_kaspi_delivery = EXCLUDED.is_kaspi_delivery,
			pre_order = EXCLUDED.pre_order,
			signature_required = EXCLUDED.signature_required,
			assembled = EXCLUDED.assembled,
			payment_mode = EXCLUDED.payment_mode,
			delivery_mode = EXCLUDED.delivery_mode,
			customer = EXCLUDED.customer,
			delivery_address = EXCLUDED.delivery_address,
			kaspi_delivery = EXCLUDED.kaspi_delivery,
			entries = EXCLUDED.entries,
			updated_at = now()
	`, o.KMID, o.Code, o.CreationDateMillis, o.TotalPriceKZT, o.DeliveryCostKZT,
		o.State, o.Status, o.IsKaspiDelivery, o.PreOrder, o.SignatureRequired,
		o.Assembled, o.PaymentMode, o.DeliveryMode,
		o.Customer, o.DeliveryAddress, o.KaspiDelivery, o.Entries)
	return err
}

// ListOrders returns one page of orders created within [fromMillis, toMillis)
// sorted by creation date descending, plus the total count in the range.
// A zero toMillis means no upper bound.
func (s *Store) ListOrders(ctx context.Context, fromMillis, toMillis int64, limit, offset int) ([]Order, int, error) {
	if toMillis <= 0 {
		toMillis = int64(1) << 62
	}

	var total int
	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM orders
		WHERE creation_date_ms >= $1 AND creation_date_ms < $2
	`, fromMillis, toMillis).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT km_id, code, creation_date_ms, total_price_kzt, delivery_cost_kzt,
		       state, status, is_kaspi_delivery, pre_order, signature_required,
		       assembled, payment_mode, delivery_mode,
		       customer, delivery_address, kaspi_delivery, entries,
		       created_at, updated_at
		FROM orders
		WHERE creation_date_ms >= $1 AND creation_date_ms < $2
		ORDER BY creation_date_ms DESC, km_id DESC
		LIMIT $3 OFFSET $4
	`, fromMillis, toMillis, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.KMID, &o.Code, &o.CreationDateMillis, &o.TotalPriceKZT, &o.DeliveryCostKZT,
			&o.State, &o.Status, &o.IsKaspiDelivery, &o.PreOrder, &o.SignatureRequired,
			&o.Assembled, &o.PaymentMode, &o.DeliveryMode,
			&o.Customer, &o.DeliveryAddress, &o.KaspiDelivery, &o.Entries,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// CountOrdersInRange counts orders created within [fromMillis, toMillis).
func (s *Store) CountOrdersInRange(ctx context.Context, fromMillis, toMillis int64) (int, error) {
	var total int
	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM orders
		WHERE creation_date_ms >= $1 AND creation_date_ms < $2
	`, fromMillis, toMillis).Scan(&total)
	return total, err
}
