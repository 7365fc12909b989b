package session

import (
	"github.com/ghaggin/erp-console/internal/client"
	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/ghaggin/erp-console/internal/tokenstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config *config.Config
	Client *client.Client
	Tokens *tokenstore.Store
	Nav    navigation.Navigator
	Log    *zap.Logger
}

// New is the fx constructor. Bootstrap runs from the console start hook.
func New(p Params) *Manager {
	return NewManager(p.Client, p.Tokens, p.Nav, p.Config.Console.LoginPath, p.Log.Named("session"))
}
