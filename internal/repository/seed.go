package repository

import (
	"time"

	"github.com/ghaggin/erp-console/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	SeedUsername = "admin"
	SeedPassword = "admin123"
)

func seed(d *Data) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	d.Users = []model.User{{
		ID:           0,
		Name:         SeedUsername,
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Email:        "admin@erp.local",
		Roles:        []string{"ADMIN"},
	}}

	if len(d.Products) == 0 {
		d.Products = []model.Product{
			{ID: 1, SKU: "YER-500", Name: "Yerba mate 500g", Category: "Almacén", CostPrice: 1200, SalePrice: 1850, Stock: 42, StockMin: 10, Active: true},
			{ID: 2, SKU: "CAF-250", Name: "Café molido 250g", Category: "Almacén", CostPrice: 2100, SalePrice: 3200, Stock: 3, StockMin: 5, Active: true},
			{ID: 3, SKU: "AZU-1K", Name: "Azúcar 1kg", Category: "Almacén", CostPrice: 800, SalePrice: 1100, Stock: 0, StockMin: 8, Active: true},
			{ID: 4, SKU: "GAL-CHO", Name: "Galletitas de chocolate", Category: "Snacks", CostPrice: 650, SalePrice: 990, Stock: 25, StockMin: 6, Active: true},
		}
	}

	if len(d.Customers) == 0 {
		d.Customers = []model.Customer{
			{ID: 1, Name: "Consumidor Final", Active: true},
			{ID: 2, Name: "Almacén Don Tito", CUIT: "20-12345678-9", Email: "tito@example.com", Active: true},
		}
	}

	if len(d.Sales) == 0 {
		now := time.Now().UTC()
		d.Sales = []model.Sale{
			{
				ID:           1,
				CustomerName: "Almacén Don Tito",
				CreatedAt:    now.Add(-48 * time.Hour),
				Total:        5550,
				Items: []model.SaleItem{
					{ProductID: 1, ProductName: "Yerba mate 500g", Quantity: 3, UnitPrice: 1850, Subtotal: 5550},
				},
			},
			{
				ID:           2,
				CustomerName: "Consumidor Final",
				CreatedAt:    now.Add(-20 * 24 * time.Hour),
				Total:        3200,
				Items: []model.SaleItem{
					{ProductID: 2, ProductName: "Café molido 250g", Quantity: 1, UnitPrice: 3200, Subtotal: 3200},
				},
			},
		}
	}

	return nil
}
