package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ghaggin/erp-console/internal/model"
)

type ProductQuery struct {
	Q        string
	Page     int
	Size     int
	MinStock *int
	Active   *bool
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.MinStock != nil {
		v.Set("minStock", strconv.Itoa(*q.MinStock))
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	return v
}

type PageQuery struct {
	Q    string
	Page int
	Size int
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*model.Page[model.Product], error) {
	var res model.Page[model.Product]
	if err := c.do(ctx, http.MethodGet, "/products", q.values(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	var res model.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	var res []model.Product
	q := url.Values{"threshold": {strconv.Itoa(threshold)}}
	if err := c.do(ctx, http.MethodGet, "/products/low-stock", q, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ProductStats(ctx context.Context) (*model.ProductStats, error) {
	var res model.ProductStats
	if err := c.do(ctx, http.MethodGet, "/products/stats", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AdjustStock(ctx context.Context, id int, adj model.StockAdjustment) (*model.Product, error) {
	var res model.Product
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/products/%d/adjust-stock", id), nil, adj, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListCustomers(ctx context.Context, q PageQuery) (*model.Page[model.Customer], error) {
	var res model.Page[model.Customer]
	if err := c.do(ctx, http.MethodGet, "/customers", q.values(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SalesQuery filters the sales list. DateFrom and DateTo are YYYY-MM-DD.
type SalesQuery struct {
	Page     int
	Size     int
	Customer string
	DateFrom string
	DateTo   string
	MinTotal *float64
}

func (q SalesQuery) values() url.Values {
	v := PageQuery{Page: q.Page, Size: q.Size}.values()
	if q.Customer != "" {
		v.Set("customer", q.Customer)
	}
	if q.DateFrom != "" {
		v.Set("dateFrom", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("dateTo", q.DateTo)
	}
	if q.MinTotal != nil {
		v.Set("minTotal", strconv.FormatFloat(*q.MinTotal, 'f', -1, 64))
	}
	return v
}

func (c *Client) ListSales(ctx context.Context, q SalesQuery) (*model.Page[model.Sale], error) {
	var res model.Page[model.Sale]
	if err := c.do(ctx, http.MethodGet, "/sales", q.values(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	var res model.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	var res model.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateSale(ctx context.Context, s model.NewSale) (*model.Sale, error) {
	var res model.Sale
	if err := c.do(ctx, http.MethodPost, "/sales", nil, s, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
