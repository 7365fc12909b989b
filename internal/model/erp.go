package model

import "time"

type Product struct {
	ID        int     `json:"id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	CostPrice float64 `json:"costPrice,omitempty"`
	SalePrice float64 `json:"salePrice"`
	Stock     int     `json:"stock"`
	StockMin  int     `json:"stockMin,omitempty"`
	Active    bool    `json:"active"`
}

func (p Product) LowStock(threshold int) bool {
	return p.Stock < threshold
}

type Customer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	CUIT    string `json:"cuit,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}

type SaleItem struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

type Sale struct {
	ID           int        `json:"saleId"`
	CustomerName string     `json:"customerName"`
	CreatedAt    time.Time  `json:"createdAt"`
	Total        float64    `json:"total"`
	Items        []SaleItem `json:"items"`
}

// NewSale is a sale as submitted: prices and totals are fixed by the API.
type NewSale struct {
	CustomerName string        `json:"customerName"`
	Items        []NewSaleItem `json:"items"`
}

type NewSaleItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Page is the paginated envelope used by list endpoints. Number is 0-based.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}

// Paginate slices items into the requested page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	content := make([]T, end-start)
	copy(content, items[start:end])
	return Page[T]{
		Content:       content,
		TotalPages:    pages,
		TotalElements: total,
		Number:        page,
		Size:          size,
	}
}

type DashboardSummary struct {
	MonthSalesCount int     `json:"monthSalesCount"`
	MonthSalesTotal float64 `json:"monthSalesTotal"`
	Last7DaysCount  int     `json:"last7DaysCount"`
}

type ProductStats struct {
	TotalProducts int `json:"totalProducts"`
	LowStockCount int `json:"lowStockCount"`
}

type StockAdjustment struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

const (
	StockIn  = "IN"
	StockOut = "OUT"
)
