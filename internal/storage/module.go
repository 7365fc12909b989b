package storage

import (
	"github.com/ghaggin/erp-console/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(Provide),
)

type Params struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Log    *zap.Logger
}

// Provide opens the configured storage and closes it when the app stops.
func Provide(p Params) (Storage, error) {
	s, err := New(p.Config.Storage, p.Log)
	if err != nil {
		return nil, err
	}

	p.LC.Append(fx.Hook{
		OnStop: s.Close,
	})

	return s, nil
}
