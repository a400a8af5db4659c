package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type createPeriodRequest struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Type  string `json:"type,omitempty"`
}

type periodResponse struct {
	ID         string    `json:"id"`
	Period     string    `json:"period"`
	Type       string    `json:"type"`
	From       int64     `json:"from"`
	To         int64     `json:"to"`
	OrderCount int       `json:"orderCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (h *Handler) CreateAccountingPeriod(c echo.Context) error {
	var req createPeriodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.svc.CreateAccountingPeriod(c.Request().Context(), req.Year, time.Month(req.Month), req.Type)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func (h *Handler) ListAccountingPeriods(c echo.Context) error {
	page := clampInt(queryInt(c, "page", 1), 1, 1<<30)
	size := clampInt(queryInt(c, "size", 20), 1, 100)

	result, err := h.svc.ListAccountingPeriods(c.Request().Context(), page, size)
	if err != nil {
		return mapServiceError(err)
	}

	items := make([]periodResponse, 0, len(result.Items))
	for _, r := range result.Items {
		items = append(items, periodResponse{
			ID:         r.Period.ID.String(),
			Period:     r.Period.Period.Format("2006-01"),
			Type:       r.Period.Type,
			From:       r.FromMillis,
			To:         r.ToMillis,
			OrderCount: r.OrderCount,
			UpdatedAt:  r.Period.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":    items,
		"total":    result.Total,
		"page":     result.Page,
		"pageSize": result.PageSize,
	})
}
