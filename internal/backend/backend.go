package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ghaggin/erp-console/internal/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Backend is a development ERP API: the credential exchange, the profile
// endpoint and read-mostly CRUD endpoints over the repository.
type Backend struct {
	log        *zap.Logger
	server     *http.Server
	controller *Controller
	issuer     *Issuer
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Config     *config.Config
	Controller *Controller
}

func New(p Params) (*Backend, error) {
	issuer, err := NewIssuer(p.Config.Backend.JWTSecret, p.Config.Backend.TokenTTL)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		log:        p.Log.Named("backend"),
		controller: p.Controller,
		issuer:     issuer,
	}

	b.server = &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", p.Config.Backend.Port),
		Handler: b.Handler(),
	}

	return b, nil
}

func (b *Backend) Handler() http.Handler {
	root := chi.NewRouter()

	root.Route("/api", func(api chi.Router) {
		// No Auth
		api.Post("/auth/login", b.login)

		// Auth
		api.Group(func(r chi.Router) {
			r.Use(b.requireBearer)
			r.Get("/auth/me", b.me)
			r.Post("/auth/logout", b.logout)

			r.Get("/products", b.products)
			r.Post("/products", b.createProduct)
			r.Get("/products/low-stock", b.lowStock)
			r.Get("/products/stats", b.productStats)
			r.Get("/products/{id}", b.product)
			r.Post("/products/{id}/adjust-stock", b.adjustStock)

			r.Get("/customers", b.customers)
			r.Get("/sales", b.sales)
			r.Post("/sales", b.createSale)
			r.Get("/dashboard/summary", b.dashboardSummary)
		})
	})

	return root
}

// RegisterHooks should be invoked by fx
func RegisterHooks(lc fx.Lifecycle, b *Backend) {
	lc.Append(fx.Hook{
		OnStart: b.Start,
		OnStop:  b.server.Shutdown,
	})
}

func (b *Backend) Start(_ context.Context) error {
	go func() {
		b.log.Info("backend listening", zap.String("addr", b.server.Addr))
		err := b.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.log.Error("error starting server", zap.Error(err))
		}
	}()
	return nil
}
