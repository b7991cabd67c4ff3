package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/kosynka/storefront/internal/domain"
	"github.com/kosynka/storefront/pkg/httpclient"
)

const serviceName = "catalog-service"

// ProductParams are the list parameters passed through to the catalog
// backend. Zero values are omitted from the query.
type ProductParams struct {
	Page     int
	PerPage  int
	Category int64
	Search   string
	OrderBy  string
}

// CategoryParams are the list parameters for category queries.
type CategoryParams struct {
	PerPage   int
	Parent    int64
	HideEmpty bool
	OrderBy   string
}

// Client fetches products and categories from the store backend. It is
// read-only passthrough; filtering and search run server side.
type Client struct {
	http    *httpclient.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client for the given backend base URL.
func NewClient(http *httpclient.Client, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Products lists catalog products.
func (c *Client) Products(ctx context.Context, params ProductParams) ([]domain.Product, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Category > 0 {
		q.Set("category", strconv.FormatInt(params.Category, 10))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.OrderBy != "" {
		q.Set("orderby", params.OrderBy)
	}

	u := c.baseURL + "/products/"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var products []domain.Product
	if err := c.getJSON(ctx, u, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ProductByID fetches a single product.
func (c *Client) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("product id is required")
	}

	var product domain.Product
	u := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	if err := c.getJSON(ctx, u, &product); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// Categories lists catalog categories.
func (c *Client) Categories(ctx context.Context, params CategoryParams) ([]domain.Category, error) {
	q := url.Values{}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Parent > 0 {
		q.Set("parent", strconv.FormatInt(params.Parent, 10))
	}
	if params.HideEmpty {
		q.Set("hide_empty", "true")
	}
	if params.OrderBy != "" {
		q.Set("orderby", params.OrderBy)
	}

	u := c.baseURL + "/categories/"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var categories []domain.Category
	if err := c.getJSON(ctx, u, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
