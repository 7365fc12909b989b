package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghaggin/erp-console/internal/config"
	"github.com/ghaggin/erp-console/internal/model"
	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/ghaggin/erp-console/internal/storage"
	"github.com/ghaggin/erp-console/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	client *Client
	store  *tokenstore.Store
	nav    *navigation.Tracker
}

func newFixture(t *testing.T, h http.Handler) *fixture {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	log := zaptest.NewLogger(t)
	store := tokenstore.New(storage.NewMemory(), log)
	nav := navigation.NewTracker("/login")
	pipeline := NewPipeline(srv.Client().Transport, store, nav, "/login", log)

	return &fixture{
		client: NewWithPipeline(srv.URL, pipeline, config.API{}, log),
		store:  store,
		nav:    nav,
	}
}

func admin() *model.UserProfile {
	return &model.UserProfile{Username: "admin", Roles: []string{"ADMIN"}}
}

func TestPipeline_AttachesStoredToken(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	var gotAuth, gotRequestID string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"monthSalesCount":3}`))
	}))

	require.NoError(f.store.Save(ctx, "T", admin()))

	_, err := f.client.DashboardSummary(ctx)
	require.NoError(err)
	assert.Equal("Bearer T", gotAuth)
	assert.NotEmpty(gotRequestID)
}

func TestPipeline_NoTokenNoHeader(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	sawHeader := true
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))

	_, err := f.client.DashboardSummary(ctx)
	require.NoError(err)
	require.False(sawHeader)
}

func TestPipeline_DoesNotMutateCallerRequest(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	log := zaptest.NewLogger(t)
	store := tokenstore.New(storage.NewMemory(), log)
	require.NoError(store.Save(ctx, "T", admin()))
	p := NewPipeline(srv.Client().Transport, store, navigation.NewTracker("/login"), "/login", log)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(err)

	resp, err := p.RoundTrip(req)
	require.NoError(err)
	resp.Body.Close()

	require.Empty(req.Header.Get("Authorization"))
}

func TestPipeline_UnauthorizedClearsAndRedirects(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))

	require.NoError(f.store.Save(ctx, "T", admin()))
	f.nav.Visit("/products")

	_, err := f.client.ListProducts(ctx, ProductQuery{})
	require.Error(err)
	assert.True(IsUnauthenticated(err))
	assert.Equal("token expired", Message(err))

	_, ok := f.store.Token(ctx)
	assert.False(ok)
	_, ok = f.store.User(ctx)
	assert.False(ok)

	target, ok := f.nav.TakeRedirect()
	assert.True(ok)
	assert.Equal("/login?from=%2Fproducts", target)
	assert.Equal("/login", f.nav.Location())

	// a second 401 while on the login view does not navigate again
	_, err = f.client.ListProducts(ctx, ProductQuery{})
	require.Error(err)
	_, ok = f.nav.TakeRedirect()
	assert.False(ok)
}

type orderCheckingNavigator struct {
	t       *testing.T
	store   *tokenstore.Store
	visited int
}

func (n *orderCheckingNavigator) Location() string { return "/sales" }

func (n *orderCheckingNavigator) GoToLogin(string) {
	_, ok := n.store.Token(context.Background())
	assert.False(n.t, ok, "token must be cleared before navigation")
	n.visited++
}

func TestPipeline_ClearsBeforeNavigating(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	log := zaptest.NewLogger(t)
	store := tokenstore.New(storage.NewMemory(), log)
	require.NoError(store.Save(ctx, "T", admin()))

	nav := &orderCheckingNavigator{t: t, store: store}
	c := NewWithPipeline(srv.URL, NewPipeline(srv.Client().Transport, store, nav, "/login", log), config.API{}, log)

	_, err := c.Me(ctx)
	require.Error(err)
	require.Equal(1, nav.visited)
}

func TestPipeline_OtherErrorsPassThrough(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"quantity must be positive"}`))
	}))
	require.NoError(f.store.Save(ctx, "T", admin()))
	f.nav.Visit("/stock")

	_, err := f.client.AdjustStock(ctx, 1, model.StockAdjustment{Type: model.StockOut, Quantity: -1})
	require.Error(err)
	assert.False(IsUnauthenticated(err))
	assert.Equal("quantity must be positive", Message(err))

	token, ok := f.store.Token(ctx)
	assert.True(ok)
	assert.Equal("T", token)
	_, ok = f.nav.TakeRedirect()
	assert.False(ok)
}
