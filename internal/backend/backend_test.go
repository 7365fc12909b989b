package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ghaggin/erp-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, method, url, token string, in any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if in != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(in))
	}
	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func login(t *testing.T, base string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/api/auth/login", "", model.Credentials{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func TestBackend_LoginAndMe(t *testing.T) {
	assert := assert.New(t)
	_, srv := newTestBackend(t)

	token := login(t, srv.URL)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me model.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal("admin", me.Username)
	assert.Equal([]string{"ADMIN"}, me.Roles)
	assert.Equal("Administrator", me.Name)
}

func TestBackend_BadCredentials(t *testing.T) {
	_, srv := newTestBackend(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", model.Credentials{Username: "admin", Password: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", model.Credentials{Username: "ghost", Password: "admin123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBackend_RequiresBearer(t *testing.T) {
	_, srv := newTestBackend(t)

	for _, path := range []string{"/api/auth/me", "/api/products", "/api/dashboard/summary"} {
		resp := doJSON(t, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		resp = doJSON(t, http.MethodGet, srv.URL+path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestBackend_Products(t *testing.T) {
	assert := assert.New(t)
	_, srv := newTestBackend(t)
	token := login(t, srv.URL)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/products?q=caf&size=5", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page model.Page[model.Product]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page.Content, 1)
	assert.Equal("CAF-250", page.Content[0].SKU)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/products/low-stock?threshold=5", token, nil)
	var low []model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&low))
	require.Len(t, low, 2)
	assert.Equal(0, low[0].Stock)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/products/99", token, nil)
	assert.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestBackend_AdjustStock(t *testing.T) {
	assert := assert.New(t)
	_, srv := newTestBackend(t)
	token := login(t, srv.URL)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/products/3/adjust-stock", token, model.StockAdjustment{Type: model.StockIn, Quantity: 12})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(12, p.Stock)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/products/3/adjust-stock", token, model.StockAdjustment{Type: model.StockOut, Quantity: 50})
	assert.Equal(http.StatusConflict, resp.StatusCode)
}

func TestBackend_LogoutIsStateless(t *testing.T) {
	_, srv := newTestBackend(t)
	token := login(t, srv.URL)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBackend_CreateProductAndSale(t *testing.T) {
	assert := assert.New(t)
	_, srv := newTestBackend(t)
	token := login(t, srv.URL)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/products", token, model.Product{SKU: "ACE-900", Name: "Aceite 900ml", SalePrice: 2500, Stock: 6, Active: true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(5, p.ID)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/products", token, model.Product{SKU: "ace-900", Name: "Duplicado"})
	assert.Equal(http.StatusConflict, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/products", token, model.Product{SKU: "NONAME"})
	assert.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/sales", token, model.NewSale{
		CustomerName: "Almacén Don Tito",
		Items:        []model.NewSaleItem{{ProductID: p.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale model.Sale
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sale))
	assert.Equal(5000.0, sale.Total)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/sales", token, model.NewSale{
		Items: []model.NewSaleItem{{ProductID: p.ID, Quantity: 5}},
	})
	assert.Equal(http.StatusConflict, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/sales", token, model.NewSale{})
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestBackend_SalesFilters(t *testing.T) {
	assert := assert.New(t)
	_, srv := newTestBackend(t)
	token := login(t, srv.URL)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/sales?customer=tito&minTotal=1000", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page model.Page[model.Sale]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page.Content, 1)
	assert.Equal("Almacén Don Tito", page.Content[0].CustomerName)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/sales?dateFrom=17-10-2026", token, nil)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/sales?minTotal=lots", token, nil)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
}
