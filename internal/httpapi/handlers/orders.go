package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"radeya/internal/store"
)

type orderResponse struct {
	ID                string  `json:"id"`
	Code              *string `json:"code"`
	CreationDate      *int64  `json:"creationDate"`
	TotalPrice        *int64  `json:"totalPrice"`
	DeliveryCost      *int64  `json:"deliveryCost"`
	State             *string `json:"state"`
	Status            *string `json:"status"`
	IsKaspiDelivery   bool    `json:"isKaspiDelivery"`
	PreOrder          bool    `json:"preOrder"`
	SignatureRequired bool    `json:"signatureRequired"`
	Assembled         bool    `json:"assembled"`
	PaymentMode       *string `json:"paymentMode"`
	DeliveryMode      *string `json:"deliveryMode"`
	Customer          any     `json:"customer"`
	DeliveryAddress   any     `json:"deliveryAddress"`
	KaspiDelivery     any     `json:"kaspiDelivery"`
	Entries           any     `json:"entries"`
}

func toOrderResponse(o store.Order) orderResponse {
	return orderResponse{
		ID:                o.KMID,
		Code:              o.Code,
		CreationDate:      o.CreationDateMillis,
		TotalPrice:        o.TotalPriceKZT,
		DeliveryCost:      o.DeliveryCostKZT,
		State:             o.State,
		Status:            o.Status,
		IsKaspiDelivery:   o.IsKaspiDelivery,
		PreOrder:          o.PreOrder,
		SignatureRequired: o.SignatureRequired,
		Assembled:         o.Assembled,
		PaymentMode:       o.PaymentMode,
		DeliveryMode:      o.DeliveryMode,
		Customer:          decodeAnyJSON(o.Customer, nil),
		DeliveryAddress:   decodeAnyJSON(o.DeliveryAddress, nil),
		KaspiDelivery:     decodeAnyJSON(o.KaspiDelivery, nil),
		Entries:           decodeAnyJSON(o.Entries, []any{}),
	}
}

func (h *Handler) ListOrders(c echo.Context) error {
	page := clampInt(queryInt(c, "page", 1), 1, 1<<30)
	size := clampInt(queryInt(c, "size", 20), 1, 100)
	from := queryInt64(c, "from", 0)
	to := queryInt64(c, "to", 0)

	result, err := h.svc.ListOrders(c.Request().Context(), from, to, page, size)
	if err != nil {
		return mapServiceError(err)
	}

	items := make([]orderResponse, 0, len(result.Items))
	for _, o := range result.Items {
		items = append(items, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":    items,
		"total":    result.Total,
		"page":     result.Page,
		"pageSize": result.PageSize,
	})
}
