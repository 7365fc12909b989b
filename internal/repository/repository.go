package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ghaggin/erp-console/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInsufficient  = errors.New("insufficient stock")
	ErrInvalidAdjust = errors.New("invalid stock adjustment")
	ErrInvalidSale   = errors.New("invalid sale")
	ErrDuplicateSKU  = errors.New("sku already exists")
)

type Repository interface {
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	AddUser(ctx context.Context, user *model.User) error
	GetUsers(ctx context.Context) ([]model.User, error)

	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	AddProduct(ctx context.Context, p model.Product) (*model.Product, error)
	AdjustStock(ctx context.Context, id int, adj model.StockAdjustment) (*model.Product, error)

	GetCustomers(ctx context.Context) ([]model.Customer, error)
	GetSales(ctx context.Context) ([]model.Sale, error)
	// AddSale takes the items out of stock and records the sale, or changes
	// nothing.
	AddSale(ctx context.Context, s model.NewSale, at time.Time) (*model.Sale, error)
}
