package marketsync

import "time"

// Window is a closed [From, To] sub-range at millisecond granularity, the
// unit the marketplace order filter works in.
type Window struct {
	From time.Time
	To   time.Time
}

// FromMillis returns the window start as Unix milliseconds.
func (w Window) FromMillis() int64 { return w.From.UnixMilli() }

// ToMillis returns the window end as Unix milliseconds.
func (w Window) ToMillis() int64 { return w.To.UnixMilli() }

// SplitRange partitions [start, end] into chronological windows no wider
// than maxSpan. Windows are inclusive on both ends and adjacent windows are
// separated by exactly one millisecond, so the union covers the range with
// no gap and no overlap. The marketplace rejects creation-date filters wider
// than 14 days, hence the split.
func SplitRange(start, end time.Time, maxSpan time.Duration) []Window {
	if end.Before(start) || maxSpan <= 0 {
		return nil
	}

	var windows []Window
	from := start
	for !from.After(end) {
		to := from.Add(maxSpan - time.Millisecond)
		if to.After(end) {
			to = end
		}
		windows = append(windows, Window{From: from, To: to})
		from = to.Add(time.Millisecond)
	}
	return windows
}
