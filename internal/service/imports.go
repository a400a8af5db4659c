package service

import (
	"context"
	"fmt"
	"strings"

	"radeya/internal/kaspi"
)

// SubmitImport forwards a product import batch to the marketplace.
func (s *Service) SubmitImport(ctx context.Context, payload []byte) (kaspi.ImportResult, error) {
	if len(payload) == 0 {
		return kaspi.ImportResult{}, fmt.Errorf("%w: empty import payload", ErrInvalidInput)
	}
	res, err := s.importer.SubmitImport(ctx, payload)
	if err != nil {
		return kaspi.ImportResult{}, err
	}
	s.logger.Printf("import %s submitted, status %s", res.ImportID, res.Status)
	return res, nil
}

// ImportStatus polls the marketplace for the state of a submitted import.
func (s *Service) ImportStatus(ctx context.Context, importID string) (kaspi.ImportResult, error) {
	importID = strings.TrimSpace(importID)
	if importID == "" {
		return kaspi.ImportResult{}, fmt.Errorf("%w: import id required", ErrInvalidInput)
	}
	return s.importer.ImportStatus(ctx, importID)
}
