package client

import (
	"net/http"

	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/ghaggin/erp-console/internal/tokenstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(
		ProvidePipeline,
		New,
	),
)

type PipelineParams struct {
	fx.In

	Config *config.Config
	Tokens *tokenstore.Store
	Nav    navigation.Navigator
	Log    *zap.Logger
}

func ProvidePipeline(p PipelineParams) *Pipeline {
	return NewPipeline(http.DefaultTransport, p.Tokens, p.Nav, p.Config.Console.LoginPath, p.Log)
}
