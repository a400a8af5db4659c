package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"radeya/internal/store"
)

type productResponse struct {
	ID              string     `json:"id"`
	Article         *string    `json:"article"`
	Name            string     `json:"name"`
	ImageURL        *string    `json:"imageUrl"`
	Supplier        any        `json:"supplier"`
	PurchasePrice   *float64   `json:"purchasePrice"`
	KaspiPrice      *float64   `json:"kaspiPrice"`
	KaspiLink       *string    `json:"kaspiLink"`
	SourceUpdatedAt *time.Time `json:"sourceUpdatedAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func toProductResponse(p store.Product) productResponse {
	return productResponse{
		ID:              p.MSID,
		Article:         p.Article,
		Name:            p.Name,
		ImageURL:        p.ImageURL,
		Supplier:        decodeAnyJSON(p.Supplier, nil),
		PurchasePrice:   minorToKZT(p.PurchasePriceMinor),
		KaspiPrice:      minorToKZT(p.KaspiPriceMinor),
		KaspiLink:       p.KaspiLink,
		SourceUpdatedAt: p.SourceUpdatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (h *Handler) ListProducts(c echo.Context) error {
	page := clampInt(queryInt(c, "page", 1), 1, 1<<30)
	size := clampInt(queryInt(c, "size", 20), 1, 100)

	result, err := h.svc.ListProducts(c.Request().Context(), c.QueryParam("search"), page, size)
	if err != nil {
		return mapServiceError(err)
	}

	items := make([]productResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toProductResponse(p))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":    items,
		"total":    result.Total,
		"page":     result.Page,
		"pageSize": result.PageSize,
	})
}

type categoryResponse struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

func (h *Handler) ListCategories(c echo.Context) error {
	cats, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	items := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		items = append(items, categoryResponse{Code: cat.Code, Title: cat.Title})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
