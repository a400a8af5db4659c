// Package kaspi is the client for the marketplace merchant API: windowed,
// paginated order listing, order entries, classification categories, and
// product import submission.
package kaspi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type Config struct {
	// APIURL is the merchant API base (orders, import).
	APIURL string
	// ShopAPIURL is the public shop API base (classification categories).
	ShopAPIURL string
	Token      string
	HTTPClient *http.Client
}

type Client struct {
	apiURL  string
	shopURL string
	token   string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		apiURL:  strings.TrimSuffix(strings.TrimSpace(cfg.APIURL), "/"),
		shopURL: strings.TrimSuffix(strings.TrimSpace(cfg.ShopAPIURL), "/"),
		token:   cfg.Token,
		http:    client,
	}
}

// APIError is a non-2xx marketplace response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kaspi: status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is rate-limiting or server-side.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Order is one order from the list endpoint, JSON:API style.
type Order struct {
	ID         string          `json:"id"`
	Attributes OrderAttributes `json:"attributes"`
}

type OrderAttributes struct {
	Code                  string          `json:"code"`
	CreationDate          int64           `json:"creationDate"`
	TotalPrice            float64         `json:"totalPrice"`
	DeliveryCostForSeller float64         `json:"deliveryCostForSeller"`
	DeliveryCost          float64         `json:"deliveryCost"`
	IsKaspiDelivery       bool            `json:"isKaspiDelivery"`
	PreOrder              bool            `json:"preOrder"`
	SignatureRequired     bool            `json:"signatureRequired"`
	Assembled             bool            `json:"assembled"`
	ApprovedByBankDate    int64           `json:"approvedByBankDate"`
	Status                string          `json:"status"`
	State                 string          `json:"state"`
	PickupPointID         string          `json:"pickupPointId"`
	PaymentMode           string          `json:"paymentMode"`
	DeliveryMode          string          `json:"deliveryMode"`
	CreditTerm            *int            `json:"creditTerm"`
	Customer              json.RawMessage `json:"customer"`
	DeliveryAddress       json.RawMessage `json:"deliveryAddress"`
	OriginAddress         json.RawMessage `json:"originAddress"`
	KaspiDelivery         json.RawMessage `json:"kaspiDelivery"`
}

// Entry is one order line item. Attributes are kept raw; the store persists
// them as JSONB in document order.
type Entry struct {
	ID         string          `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

type OrdersPage struct {
	Orders  []Order
	HasNext bool
}

type EntriesPage struct {
	Entries []Entry
	HasNext bool
}

type Category struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// ImportResult is the marketplace's answer to an import submission or a
// status check.
type ImportResult struct {
	ImportID string `json:"importId"`
	Status   string `json:"status"`
}

type ordersListResponse struct {
	Data    []Order `json:"data"`
	Content []Order `json:"content"`
	Links   struct {
		Next string `json:"next"`
	} `json:"links"`
}

type entriesListResponse struct {
	Data  []Entry `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// ListOrders fetches one page of orders created within the inclusive
// [fromMillis, toMillis] window. HasNext is true when the response carries a
// continuation link, or heuristically when the page came back full (a full
// final page is indistinguishable from a continuation here; the walker then
// terminates on the following empty page).
func (c *Client) ListOrders(ctx context.Context, page, size int, fromMillis, toMillis int64) (OrdersPage, error) {
	params := url.Values{}
	params.Set("page[number]", strconv.Itoa(page))
	params.Set("page[size]", strconv.Itoa(size))
	params.Set("filter[orders][creationDate][$ge]", strconv.FormatInt(fromMillis, 10))
	params.Set("filter[orders][creationDate][$le]", strconv.FormatInt(toMillis, 10))

	var resp ordersListResponse
	if err := c.getJSON(ctx, c.apiURL+"/orders?"+params.Encode(), &resp); err != nil {
		return OrdersPage{}, err
	}

	// Depending on the API version the array arrives in data or content.
	items := resp.Data
	if len(items) == 0 {
		items = resp.Content
	}
	return OrdersPage{
		Orders:  items,
		HasNext: resp.Links.Next != "" || len(items) == size,
	}, nil
}

// ListOrderEntries fetches one page of line items for the given order.
func (c *Client) ListOrderEntries(ctx context.Context, orderID string, page, size int) (EntriesPage, error) {
	params := url.Values{}
	params.Set("page[number]", strconv.Itoa(page))
	params.Set("page[size]", strconv.Itoa(size))

	var resp entriesListResponse
	u := c.apiURL + "/orders/" + url.PathEscape(orderID) + "/entries?" + params.Encode()
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return EntriesPage{}, err
	}
	return EntriesPage{
		Entries: resp.Data,
		HasNext: resp.Links.Next != "" || len(resp.Data) == size,
	}, nil
}

// ListCategories fetches the full classification code list (not paginated).
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getJSON(ctx, c.shopURL+"/products/classification/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitImport posts a product import batch and returns the import id to
// poll with ImportStatus.
func (c *Client) SubmitImport(ctx context.Context, payload []byte) (ImportResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/product/import", bytes.NewReader(payload))
	if err != nil {
		return ImportResult{}, err
	}
	req.Header.Set("Content-Type", "text/plain")

	var out ImportResult
	if err := c.do(req, &out); err != nil {
		return ImportResult{}, err
	}
	return out, nil
}

// ImportStatus retrieves the processing status for a submitted import.
func (c *Client) ImportStatus(ctx context.Context, importID string) (ImportResult, error) {
	var out ImportResult
	u := c.apiURL + "/product/import/status/" + url.PathEscape(importID)
	if err := c.getJSON(ctx, u, &out); err != nil {
		return ImportResult{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/vnd.api+json; charset=UTF-8")
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode kaspi response: %w", err)
	}
	return nil
}
