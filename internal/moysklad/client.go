// Package moysklad is the client for the ERP remap API: limit/offset product
// pages and per-product image miniature lookup, behind basic auth.
package moysklad

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

type Config struct {
	BaseURL    string
	Login      string
	Password   string
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	authz   string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	basic := base64.StdEncoding.EncodeToString([]byte(cfg.Login + ":" + cfg.Password))
	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/"),
		authz:   "Basic " + basic,
		http:    client,
	}
}

// APIError is a non-2xx ERP response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("moysklad: status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is rate-limiting or server-side.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Meta struct {
	Size   int `json:"size"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Price struct {
	Value     float64 `json:"value"`
	PriceType struct {
		Name string `json:"name"`
	} `json:"priceType"`
}

type Attribute struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ImagesRef points at a product's image collection.
type ImagesRef struct {
	Meta struct {
		Href string `json:"href"`
	} `json:"meta"`
}

type Product struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Code       string      `json:"code"`
	Updated    string      `json:"updated"`
	BuyPrice   *Price      `json:"buyPrice"`
	SalePrices []Price     `json:"salePrices"`
	Attributes []Attribute `json:"attributes"`
	Images     *ImagesRef  `json:"images"`
}

type ProductsPage struct {
	Meta Meta      `json:"meta"`
	Rows []Product `json:"rows"`
}

// UpdatedLayout is the timestamp format of Product.Updated (Moscow time).
const UpdatedLayout = "2006-01-02 15:04:05.000"

// ImagesHref returns the product's image collection URL, or "" when the
// product has no images.
func (p Product) ImagesHref() string {
	if p.Images == nil {
		return ""
	}
	return p.Images.Meta.Href
}

// ListProducts fetches one limit/offset page of catalog products.
func (c *Client) ListProducts(ctx context.Context, limit, offset int) (ProductsPage, error) {
	u := c.baseURL + "/entity/product?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	var page ProductsPage
	if err := c.getJSON(ctx, u, &page); err != nil {
		return ProductsPage{}, err
	}
	return page, nil
}

type imagesResponse struct {
	Rows []struct {
		Miniature *struct {
			Href string `json:"href"`
		} `json:"miniature"`
	} `json:"rows"`
}

// MiniatureURL resolves the first image miniature for the given images
// collection href. Returns "" when the product has no images.
func (c *Client) MiniatureURL(ctx context.Context, imagesHref string) (string, error) {
	u := imagesHref
	if strings.Contains(u, "?") {
		u += "&limit=1"
	} else {
		u += "?limit=1"
	}

	var resp imagesResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return "", err
	}
	if len(resp.Rows) == 0 || resp.Rows[0].Miniature == nil {
		return "", nil
	}
	return resp.Rows[0].Miniature.Href, nil
}

func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json;charset=utf-8")
	req.Header.Set("Authorization", c.authz)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode moysklad response: %w", err)
	}
	return nil
}
