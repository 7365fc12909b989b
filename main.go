package main

import (
	"flag"

	"github.com/ghaggin/erp-console/internal/backend"
	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/console"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	var mode = flag.String("mode", string(config.ModeConsole), "either console or api")
	configPath := config.FlagPath(flag.CommandLine)
	flag.Parse()

	deps := fx.Options(
		fx.Supply(config.Path(*configPath)),
		fx.Provide(
			config.New,
			newLogger,
		),
	)

	var app *fx.App
	switch config.Mode(*mode) {
	case config.ModeConsole:
		app = fx.New(
			deps,
			console.Module,
			fx.Invoke(console.RegisterHooks),
		)
	case config.ModeAPI:
		app = fx.New(
			deps,
			backend.Module,
			fx.Invoke(backend.RegisterHooks),
		)
	default:
		panic("unrecognized mode")
	}

	app.Run()
}
