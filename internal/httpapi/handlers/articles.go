package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) AllocateArticles(c echo.Context) error {
	name := c.QueryParam("name")
	count := clampInt(queryInt(c, "count", 1), 1, 100)

	codes, err := h.svc.AllocateArticles(c.Request().Context(), name, count)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"articles": codes})
}
