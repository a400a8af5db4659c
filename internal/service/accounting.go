package service

import (
	"context"
	"fmt"
	"time"

	"radeya/internal/store"
)

// PeriodReport is an accounting period annotated with the number of orders
// that fall inside its month.
type PeriodReport struct {
	Period     store.AccountingPeriod
	FromMillis int64
	ToMillis   int64
	OrderCount int
}

// PeriodPage is one page of accounting periods.
type PeriodPage struct {
	Items    []PeriodReport
	Total    int
	Page     int
	PageSize int
}

// CreateAccountingPeriod registers a bookkeeping month. Re-creating an
// existing month only updates its type.
func (s *Service) CreateAccountingPeriod(ctx context.Context, year int, month time.Month, periodType string) error {
	if year < 2000 || year > 2200 {
		return fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month out of range", ErrInvalidInput)
	}
	if periodType == "" {
		periodType = "orders"
	}

	start, _ := s.monthRange(year, month)
	return s.accounting.UpsertAccountingPeriod(ctx, start, periodType)
}

// ListAccountingPeriods returns registered months with their order counts,
// most recently touched first.
func (s *Service) ListAccountingPeriods(ctx context.Context, page, size int) (PeriodPage, error) {
	limit, offset := pageToOffset(page, size)
	periods, total, err := s.accounting.ListAccountingPeriods(ctx, limit, offset)
	if err != nil {
		return PeriodPage{}, err
	}

	items := make([]PeriodReport, 0, len(periods))
	for _, p := range periods {
		local := p.Period.In(s.loc)
		start, end := s.monthRange(local.Year(), local.Month())
		count, err := s.orders.CountOrdersInRange(ctx, start.UnixMilli(), end.UnixMilli())
		if err != nil {
			return PeriodPage{}, err
		}
		items = append(items, PeriodReport{
			Period:     p,
			FromMillis: start.UnixMilli(),
			ToMillis:   end.UnixMilli(),
			OrderCount: count,
		})
	}
	return PeriodPage{
		Items:    items,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}

// monthRange returns the half-open [start, end) of the month in the business
// timezone. end is the first instant of the following month.
func (s *Service) monthRange(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	end = start.AddDate(0, 1, 0)
	return start, end
}
