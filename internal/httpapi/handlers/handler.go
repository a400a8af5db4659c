package handlers

import (
	"context"

	"radeya/internal/config"
	"radeya/internal/marketsync"
	"radeya/internal/service"
)

// SyncStatus reports what the manual sync trigger is doing and how its last
// pass ended.
type SyncStatus struct {
	Running    bool                `json:"running"`
	LastResult *marketsync.Summary `json:"lastResult,omitempty"`
	LastError  string              `json:"lastError,omitempty"`
}

// SyncController starts background sync passes on demand.
type SyncController interface {
	TriggerSync(ctx context.Context) (bool, error)
	Status() SyncStatus
}

type Handler struct {
	cfg      config.Config
	svc      *service.Service
	trigger  SyncController
	filesDir string
}

func New(cfg config.Config, svc *service.Service, trigger SyncController, filesDir string) *Handler {
	return &Handler{
		cfg:      cfg,
		svc:      svc,
		trigger:  trigger,
		filesDir: filesDir,
	}
}

// FilesDir is the local uploads directory to serve statically, or empty when
// uploads go to object storage.
func (h *Handler) FilesDir() string { return h.filesDir }
