package console

import (
	"github.com/ghaggin/erp-console/internal/client"
	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/middleware"
	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/ghaggin/erp-console/internal/session"
	"github.com/ghaggin/erp-console/internal/storage"
	"github.com/ghaggin/erp-console/internal/tokenstore"
	"go.uber.org/fx"
)

var Module = fx.Options(
	storage.Module,
	client.Module,
	fx.Provide(
		NewTracker,
		func(t *navigation.Tracker) navigation.Navigator { return t },
		tokenstore.New,
		session.New,
		middleware.NewBrowserSession,
		New,
	),
)

func NewTracker(cfg *config.Config) *navigation.Tracker {
	return navigation.NewTracker(cfg.Console.LoginPath)
}
