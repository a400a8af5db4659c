package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"radeya/internal/httpapi/handlers"
	"radeya/internal/marketsync"
)

// SyncTrigger runs a full sync pass in the background when an operator asks
// for one, and remembers the outcome of the last pass.
type SyncTrigger struct {
	runner *marketsync.Runner
	logger *log.Logger

	mu         sync.Mutex
	running    bool
	lastResult *marketsync.Summary
	lastError  error
}

func NewSyncTrigger(runner *marketsync.Runner, logger *log.Logger) *SyncTrigger {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SyncTrigger{
		runner: runner,
		logger: logger,
	}
}

// TriggerSync starts a background pass. It returns false without starting
// anything when a pass triggered here is still running.
func (st *SyncTrigger) TriggerSync(_ context.Context) (bool, error) {
	st.mu.Lock()
	if st.running {
		st.mu.Unlock()
		return false, nil
	}
	st.running = true
	st.mu.Unlock()

	go func() {
		summary, err := st.runner.Run(context.Background())

		st.mu.Lock()
		st.running = false
		if errors.Is(err, marketsync.ErrSyncInProgress) {
			// The periodic worker got there first; keep the previous result.
			st.mu.Unlock()
			st.logger.Printf("manual sync skipped: periodic pass in progress")
			return
		}
		st.lastResult = &summary
		st.lastError = err
		st.mu.Unlock()

		if err != nil {
			st.logger.Printf("manual sync failed: %v", err)
			return
		}
		st.logger.Printf(
			"manual sync finished: orders=%d catalog=%d categories=%d",
			summary.Orders.Upserted, summary.Catalog.Upserted, summary.Categories.Upserted,
		)
	}()

	return true, nil
}

func (st *SyncTrigger) Status() handlers.SyncStatus {
	st.mu.Lock()
	defer st.mu.Unlock()

	errStr := ""
	if st.lastError != nil {
		errStr = st.lastError.Error()
	}
	return handlers.SyncStatus{
		Running:    st.running,
		LastResult: st.lastResult,
		LastError:  errStr,
	}
}
