package backend

import (
	"net/http/httptest"
	"testing"

	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestBackend(t *testing.T) (*Backend, *httptest.Server) {
	t.Helper()
	require := require.New(t)
	log := zaptest.NewLogger(t)

	repo, err := repository.OpenJSON("", log)
	require.NoError(err)
	ctrl, err := NewController(ControllerParams{Logger: log, Repo: repo})
	require.NoError(err)

	b, err := New(Params{Log: log, Config: config.Default(), Controller: ctrl})
	require.NoError(err)

	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}
