package marketsync

import (
	"context"
	"errors"
	"testing"
)

// makePagedFetch serves the given page sizes in order, marking HasNext with
// the full-page heuristic the clients use.
func makePagedFetch(pageSizes []int, calls *int) func(ctx context.Context, page, size int) (Page[int], error) {
	return func(_ context.Context, page, size int) (Page[int], error) {
		*calls++
		if page >= len(pageSizes) {
			return Page[int]{}, nil
		}
		items := make([]int, pageSizes[page])
		for i := range items {
			items[i] = page*size + i
		}
		return Page[int]{Items: items, HasNext: len(items) == size}, nil
	}
}

func TestWalkPages_PartialLastPage(t *testing.T) {
	t.Parallel()

	calls := 0
	items, err := WalkPages(context.Background(), 100, makePagedFetch([]int{100, 100, 57}, &calls))
	if err != nil {
		t.Fatalf("WalkPages() error = %v", err)
	}
	if len(items) != 257 {
		t.Fatalf("len(items) = %d, want 257", len(items))
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (partial page ends the walk)", calls)
	}
}

func TestWalkPages_FullLastPageCostsOneExtraCall(t *testing.T) {
	t.Parallel()

	// A full final page is indistinguishable from a continuation, so the
	// walker fetches one more (empty) page and stops.
	calls := 0
	items, err := WalkPages(context.Background(), 100, makePagedFetch([]int{100, 100}, &calls))
	if err != nil {
		t.Fatalf("WalkPages() error = %v", err)
	}
	if len(items) != 200 {
		t.Fatalf("len(items) = %d, want 200", len(items))
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWalkPages_EmptyFirstPage(t *testing.T) {
	t.Parallel()

	calls := 0
	items, err := WalkPages(context.Background(), 100, makePagedFetch(nil, &calls))
	if err != nil {
		t.Fatalf("WalkPages() error = %v", err)
	}
	if len(items) != 0 || calls != 1 {
		t.Fatalf("items=%d calls=%d, want 0 items after 1 call", len(items), calls)
	}
}

func TestWalkPages_ExplicitHasNextFalseStops(t *testing.T) {
	t.Parallel()

	calls := 0
	items, err := WalkPages(context.Background(), 100, func(_ context.Context, page, size int) (Page[int], error) {
		calls++
		return Page[int]{Items: make([]int, size), HasNext: false}, nil
	})
	if err != nil {
		t.Fatalf("WalkPages() error = %v", err)
	}
	if len(items) != 100 || calls != 1 {
		t.Fatalf("items=%d calls=%d, want full page then stop", len(items), calls)
	}
}

func TestWalkPages_FetchErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := WalkPages(context.Background(), 100, func(_ context.Context, page, size int) (Page[int], error) {
		if page == 1 {
			return Page[int]{}, boom
		}
		return Page[int]{Items: make([]int, size), HasNext: true}, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WalkPages() error = %v, want %v", err, boom)
	}
}
