package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	errTableFileIsDir = errors.New("table file is dir")
)

type Data struct {
	Users     []model.User     `json:"users"`
	Products  []model.Product  `json:"products"`
	Customers []model.Customer `json:"customers"`
	Sales     []model.Sale     `json:"sales"`
}

type jsonRepo struct {
	path string
	log  *zap.Logger

	mu   sync.RWMutex
	data *Data
}

type jsonParams struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Log    *zap.Logger
}

func NewJSON(p jsonParams) (Repository, error) {
	r, err := OpenJSON(p.Config.Backend.DataPath, p.Log)
	if err != nil {
		return nil, err
	}

	p.LC.Append(fx.Hook{
		OnStop: r.stop,
	})

	return r, nil
}

// OpenJSON loads the data file at path. An empty path keeps the data in
// memory only.
func OpenJSON(path string, log *zap.Logger) (*jsonRepo, error) {
	r := &jsonRepo{
		path: path,
		log:  log,
		data: &Data{},
	}

	if path != "" {
		err := r.readfile()
		if err != nil {
			// only log, data will be seeded and will overwrite when
			// the service is stopped
			r.log.Warn("failed reading json repo data file", zap.Error(err))
			r.data = &Data{}
		}
	}

	if len(r.data.Users) == 0 {
		if err := seed(r.data); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *jsonRepo) stop(_ context.Context) error {
	if r.path == "" {
		return nil
	}
	return r.writefile()
}

func (r *jsonRepo) readfile() error {
	finfo, err := os.Stat(r.path)
	if err != nil {
		return err
	}

	if finfo.IsDir() {
		return errTableFileIsDir
	}

	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(&r.data)
}

func (r *jsonRepo) writefile() error {
	r.mu.RLock()
	b, err := json.MarshalIndent(r.data, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(r.path, b, 0o600)
}

func (r *jsonRepo) GetUserByName(_ context.Context, name string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.data.Users {
		if u.Name == name {
			return &u, nil
		}
	}

	return nil, ErrNotFound
}

func (r *jsonRepo) AddUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = 0
	l := len(r.data.Users)
	if l > 0 {
		user.ID = r.data.Users[l-1].ID + 1
	}

	r.data.Users = append(r.data.Users, *user)
	return nil
}

func (r *jsonRepo) GetUsers(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.User(nil), r.data.Users...), nil
}

func (r *jsonRepo) GetProducts(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Product(nil), r.data.Products...), nil
}

func (r *jsonRepo) GetProduct(_ context.Context, id int) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.data.Products {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, ErrNotFound
}

func (r *jsonRepo) AdjustStock(_ context.Context, id int, adj model.StockAdjustment) (*model.Product, error) {
	if adj.Quantity <= 0 {
		return nil, ErrInvalidAdjust
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.data.Products {
		p := &r.data.Products[i]
		if p.ID != id {
			continue
		}

		switch adj.Type {
		case model.StockIn:
			p.Stock += adj.Quantity
		case model.StockOut:
			if p.Stock < adj.Quantity {
				return nil, ErrInsufficient
			}
			p.Stock -= adj.Quantity
		default:
			return nil, ErrInvalidAdjust
		}

		out := *p
		return &out, nil
	}

	return nil, ErrNotFound
}

func (r *jsonRepo) GetCustomers(_ context.Context) ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Customer(nil), r.data.Customers...), nil
}

func (r *jsonRepo) GetSales(_ context.Context) ([]model.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Sale(nil), r.data.Sales...), nil
}

func (r *jsonRepo) AddProduct(_ context.Context, p model.Product) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = 1
	for _, existing := range r.data.Products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return nil, ErrDuplicateSKU
		}
		if existing.ID >= p.ID {
			p.ID = existing.ID + 1
		}
	}

	r.data.Products = append(r.data.Products, p)
	return &p, nil
}

func (r *jsonRepo) AddSale(_ context.Context, ns model.NewSale, at time.Time) (*model.Sale, error) {
	if len(ns.Items) == 0 {
		return nil, ErrInvalidSale
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[int]int, len(r.data.Products))
	for i, p := range r.data.Products {
		index[p.ID] = i
	}

	// check every line before touching stock
	wanted := make(map[int]int, len(ns.Items))
	for _, it := range ns.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidSale
		}
		if _, ok := index[it.ProductID]; !ok {
			return nil, ErrNotFound
		}
		wanted[it.ProductID] += it.Quantity
	}
	for id, qty := range wanted {
		if r.data.Products[index[id]].Stock < qty {
			return nil, ErrInsufficient
		}
	}

	sale := model.Sale{
		ID:           1,
		CustomerName: ns.CustomerName,
		CreatedAt:    at,
	}
	for _, s := range r.data.Sales {
		if s.ID >= sale.ID {
			sale.ID = s.ID + 1
		}
	}
	for _, it := range ns.Items {
		p := &r.data.Products[index[it.ProductID]]
		p.Stock -= it.Quantity
		item := model.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   p.SalePrice,
			Subtotal:    p.SalePrice * float64(it.Quantity),
		}
		sale.Items = append(sale.Items, item)
		sale.Total += item.Subtotal
	}

	r.data.Sales = append(r.data.Sales, sale)
	return &sale, nil
}
