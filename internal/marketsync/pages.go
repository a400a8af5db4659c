package marketsync

import "context"

// Page is one page of a remote listing. HasNext is decided by the fetcher:
// either from an explicit continuation link or from the full-page heuristic
// (item count == page size). A full last page with no link is treated as a
// continuation; the walker then stops on the following empty page.
type Page[T any] struct {
	Items   []T
	HasNext bool
}

// WalkPages drains a paginated endpoint starting at page 0 and returns the
// flattened item sequence. It stops after the first page that is empty or
// reports no continuation. Pages are never re-fetched.
func WalkPages[T any](ctx context.Context, pageSize int, fetch func(ctx context.Context, page, size int) (Page[T], error)) ([]T, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	var all []T
	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := fetch(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if len(p.Items) == 0 || !p.HasNext {
			break
		}
	}
	return all, nil
}
