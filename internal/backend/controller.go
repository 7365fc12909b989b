package backend

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/ghaggin/erp-console/internal/model"
	"github.com/ghaggin/erp-console/internal/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const DefaultCustomer = "Consumidor Final"

var ErrInvalidProduct = errors.New("invalid product")

type Controller struct {
	repo repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

type ControllerParams struct {
	fx.In

	Logger *zap.Logger
	Repo   repository.Repository
}

func NewController(p ControllerParams) (*Controller, error) {
	return &Controller{
		log:  p.Logger,
		repo: p.Repo,
		now:  time.Now,
	}, nil
}

func (c *Controller) ValidateLogin(ctx context.Context, username string, password string) (*model.User, bool, error) {
	u, err := c.repo.GetUserByName(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
		return u, true, nil
	}

	return nil, false, nil
}

func (c *Controller) GetUser(ctx context.Context, username string) (*model.User, error) {
	return c.repo.GetUserByName(ctx, username)
}

type ProductFilter struct {
	Q        string
	MinStock *int
	Active   *bool
}

func (f ProductFilter) match(p model.Product) bool {
	if f.Q != "" {
		q := strings.ToLower(f.Q)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			return false
		}
	}
	if f.MinStock != nil && p.Stock < *f.MinStock {
		return false
	}
	if f.Active != nil && p.Active != *f.Active {
		return false
	}
	return true
}

func (c *Controller) Products(ctx context.Context, f ProductFilter, page, size int) (model.Page[model.Product], error) {
	all, err := c.repo.GetProducts(ctx)
	if err != nil {
		return model.Page[model.Product]{}, err
	}

	matched := make([]model.Product, 0, len(all))
	for _, p := range all {
		if f.match(p) {
			matched = append(matched, p)
		}
	}
	return model.Paginate(matched, page, size), nil
}

func (c *Controller) Product(ctx context.Context, id int) (*model.Product, error) {
	return c.repo.GetProduct(ctx, id)
}

func (c *Controller) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	all, err := c.repo.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]model.Product, 0)
	for _, p := range all {
		if p.LowStock(threshold) {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return low, nil
}

func (c *Controller) ProductStats(ctx context.Context) (*model.ProductStats, error) {
	all, err := c.repo.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.ProductStats{TotalProducts: len(all)}
	for _, p := range all {
		if p.Stock <= p.StockMin {
			stats.LowStockCount++
		}
	}
	return stats, nil
}

func (c *Controller) AdjustStock(ctx context.Context, id int, adj model.StockAdjustment) (*model.Product, error) {
	p, err := c.repo.AdjustStock(ctx, id, adj)
	if err != nil {
		return nil, err
	}
	c.log.Info("stock adjusted", zap.Int("product_id", id), zap.String("type", adj.Type), zap.Int("quantity", adj.Quantity))
	return p, nil
}

func (c *Controller) Customers(ctx context.Context, q string, page, size int) (model.Page[model.Customer], error) {
	all, err := c.repo.GetCustomers(ctx)
	if err != nil {
		return model.Page[model.Customer]{}, err
	}

	q = strings.ToLower(q)
	matched := make([]model.Customer, 0, len(all))
	for _, cu := range all {
		if q == "" || strings.Contains(strings.ToLower(cu.Name), q) {
			matched = append(matched, cu)
		}
	}
	return model.Paginate(matched, page, size), nil
}

// SaleFilter narrows the sales list. From and To are calendar days, both
// inclusive.
type SaleFilter struct {
	Customer string
	From     *time.Time
	To       *time.Time
	MinTotal *float64
}

func (f SaleFilter) match(s model.Sale) bool {
	if f.Customer != "" && !strings.Contains(strings.ToLower(s.CustomerName), strings.ToLower(f.Customer)) {
		return false
	}
	created := s.CreatedAt.UTC()
	if f.From != nil && created.Before(*f.From) {
		return false
	}
	if f.To != nil && !created.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	if f.MinTotal != nil && s.Total < *f.MinTotal {
		return false
	}
	return true
}

// Sales are listed newest first.
func (c *Controller) Sales(ctx context.Context, f SaleFilter, page, size int) (model.Page[model.Sale], error) {
	all, err := c.repo.GetSales(ctx)
	if err != nil {
		return model.Page[model.Sale]{}, err
	}

	matched := make([]model.Sale, 0, len(all))
	for _, s := range all {
		if f.match(s) {
			matched = append(matched, s)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return model.Paginate(matched, page, size), nil
}

func (c *Controller) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	if p.Name == "" || p.SKU == "" || p.SalePrice < 0 || p.CostPrice < 0 || p.Stock < 0 || p.StockMin < 0 {
		return nil, ErrInvalidProduct
	}

	created, err := c.repo.AddProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	c.log.Info("product created", zap.Int("product_id", created.ID), zap.String("sku", created.SKU))
	return created, nil
}

func (c *Controller) CreateSale(ctx context.Context, ns model.NewSale) (*model.Sale, error) {
	ns.CustomerName = strings.TrimSpace(ns.CustomerName)
	if ns.CustomerName == "" {
		ns.CustomerName = DefaultCustomer
	}

	sale, err := c.repo.AddSale(ctx, ns, c.now().UTC())
	if err != nil {
		return nil, err
	}
	c.log.Info("sale recorded", zap.Int("sale_id", sale.ID), zap.Float64("total", sale.Total))
	return sale, nil
}

func (c *Controller) DashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	all, err := c.repo.GetSales(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	summary := &model.DashboardSummary{}
	for _, s := range all {
		created := s.CreatedAt.UTC()
		if !created.Before(monthStart) {
			summary.MonthSalesCount++
			summary.MonthSalesTotal += s.Total
		}
		if created.After(weekAgo) {
			summary.Last7DaysCount++
		}
	}
	return summary, nil
}
