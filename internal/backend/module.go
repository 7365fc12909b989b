package backend

import (
	"github.com/ghaggin/erp-console/internal/repository"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		repository.NewJSON,
		New,
		NewController,
	),
)
