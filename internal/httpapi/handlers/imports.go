package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

const maxImportPayloadBytes = 5 << 20

func (h *Handler) SubmitImport(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportPayloadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read import payload")
	}
	if len(payload) > maxImportPayloadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "import payload too large")
	}

	result, err := h.svc.SubmitImport(c.Request().Context(), payload)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusAccepted, result)
}

func (h *Handler) ImportStatus(c echo.Context) error {
	result, err := h.svc.ImportStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, result)
}
