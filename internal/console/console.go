package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ghaggin/erp-console/internal/client"
	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/middleware"
	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/ghaggin/erp-console/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const lowStockThreshold = 5

type Console struct {
	log       *zap.Logger
	server    *http.Server
	sessions  *session.Manager
	api       *client.Client
	tracker   *navigation.Tracker
	browser   *middleware.BrowserSession
	loginPath string
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Config   *config.Config
	Sessions *session.Manager
	Client   *client.Client
	Tracker  *navigation.Tracker
	Browser  *middleware.BrowserSession
}

func New(p Params) (*Console, error) {
	c := &Console{
		log:       p.Log.Named("console"),
		sessions:  p.Sessions,
		api:       p.Client,
		tracker:   p.Tracker,
		browser:   p.Browser,
		loginPath: p.Config.Console.LoginPath,
	}

	c.server = &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", p.Config.Console.Port),
		Handler: c.Handler(),
	}

	return c, nil
}

func (c *Console) Handler() http.Handler {
	root := chi.NewRouter()
	root.Use(c.browser.Wrap)

	// only page routes move the operator; stray asset fetches do not
	track := middleware.Track(c.tracker)

	// Auth
	root.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(c.sessions, c.loginPath))
		r.Use(track)
		r.Get("/", c.dashboard)
		r.Get("/products", c.products)
		r.Get("/products/new", c.newProductForm)
		r.Post("/products/new", c.createProduct)
		r.Get("/customers", c.customers)
		r.Get("/sales", c.sales)
		r.Get("/sales/new", c.newSaleForm)
		r.Post("/sales/new", c.createSale)
		r.Get("/stock", c.stock)
		r.Post("/stock/{id}/adjust", c.adjustStock)
	})

	// No Auth
	root.Group(func(r chi.Router) {
		r.With(track).Get(c.loginPath, c.loginForm)
		r.Post(c.loginPath, c.login)
		r.Post("/logout", c.logout)
	})

	return root
}

// RegisterHooks should be invoked by fx
func RegisterHooks(lc fx.Lifecycle, c *Console) {
	lc.Append(fx.Hook{
		OnStart: c.Start,
		OnStop:  c.server.Shutdown,
	})
}

// Start restores the persisted session before serving so the guard never
// sees the bootstrapping state.
func (c *Console) Start(ctx context.Context) error {
	c.sessions.Bootstrap(ctx)

	go func() {
		c.log.Info("console listening", zap.String("addr", c.server.Addr), zap.String("api", c.api.BaseURL()))
		err := c.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Error("error running console server", zap.Error(err))
		}
	}()
	return nil
}
