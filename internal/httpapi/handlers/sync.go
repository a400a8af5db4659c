package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) TriggerSync(c echo.Context) error {
	started, err := h.trigger.TriggerSync(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !started {
		return c.JSON(http.StatusConflict, map[string]any{
			"started": false,
			"reason":  "sync already running",
		})
	}
	return c.JSON(http.StatusAccepted, map[string]any{"started": true})
}

func (h *Handler) SyncStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.trigger.Status())
}
