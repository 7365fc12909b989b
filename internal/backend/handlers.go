package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ghaggin/erp-console/internal/model"
	"github.com/ghaggin/erp-console/internal/repository"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type subjectContextKey struct{}

func subjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectContextKey{}).(string)
	return s
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

func (b *Backend) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		subject, err := b.issuer.Parse(token)
		if err != nil {
			b.log.Debug("rejected token", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), subjectContextKey{}, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (b *Backend) internalError(w http.ResponseWriter, err error) {
	b.log.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func intParam(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return n
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok, err := b.controller.ValidateLogin(r.Context(), creds.Username, creds.Password)
	if err != nil {
		b.internalError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid username or password")
		return
	}

	token, err := b.issuer.Issue(user)
	if err != nil {
		b.internalError(w, err)
		return
	}

	b.log.Info("issued token", zap.String("username", user.Name))
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "Bearer"})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	user, err := b.controller.GetUser(r.Context(), subjectFromContext(r.Context()))
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	if err != nil {
		b.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}

// Tokens are stateless; logging out only matters to the client.
func (b *Backend) logout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ProductFilter{Q: q.Get("q")}
	if v, err := strconv.Atoi(q.Get("minStock")); err == nil {
		f.MinStock = &v
	}
	if v, err := strconv.ParseBool(q.Get("active")); err == nil {
		f.Active = &v
	}

	page, err := b.controller.Products(r.Context(), f, intParam(r, "page", 0), intParam(r, "size", 10))
	if err != nil {
		b.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) product(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := b.controller.Product(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		b.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := b.controller.LowStock(r.Context(), intParam(r, "threshold", 5))
	if err != nil {
		b.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (b *Backend) productStats(w http.ResponseWriter, r *http.Request) {
	stats, err := b.controller.ProductStats(r.Context())
	if err != nil {
		b.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var adj model.StockAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adj); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := b.controller.AdjustStock(r.Context(), id, adj)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrInsufficient):
		writeError(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, repository.ErrInvalidAdjust):
		writeError(w, http.StatusBadRequest, "type must be IN or OUT and quantity positive")
	case err != nil:
		b.internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (b *Backend) customers(w http.ResponseWriter, r *http.Request) {
	page, err := b.controller.Customers(r.Context(), r.URL.Query().Get("q"), intParam(r, "page", 0), intParam(r, "size", 10))
	if err != nil {
		b.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

const dateLayout = "2006-01-02"

func saleFilter(r *http.Request) (SaleFilter, error) {
	q := r.URL.Query()
	f := SaleFilter{Customer: strings.TrimSpace(q.Get("customer"))}

	for key, dst := range map[string]**time.Time{"dateFrom": &f.From, "dateTo": &f.To} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("%s must be YYYY-MM-DD", key)
		}
		*dst = &t
	}

	if v := q.Get("minTotal"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("minTotal must be a number")
		}
		f.MinTotal = &n
	}
	return f, nil
}

func (b *Backend) sales(w http.ResponseWriter, r *http.Request) {
	f, err := saleFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := b.controller.Sales(r.Context(), f, intParam(r, "page", 0), intParam(r, "size", 10))
	if err != nil {
		b.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := b.controller.DashboardSummary(r.Context())
	if err != nil {
		b.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (b *Backend) createProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := b.controller.CreateProduct(r.Context(), p)
	switch {
	case errors.Is(err, ErrInvalidProduct):
		writeError(w, http.StatusBadRequest, "name and sku are required; prices and stock cannot be negative")
	case errors.Is(err, repository.ErrDuplicateSKU):
		writeError(w, http.StatusConflict, "a product with that sku already exists")
	case err != nil:
		b.internalError(w, err)
	default:
		writeJSON(w, http.StatusCreated, created)
	}
}

func (b *Backend) createSale(w http.ResponseWriter, r *http.Request) {
	var ns model.NewSale
	if err := json.NewDecoder(r.Body).Decode(&ns); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := b.controller.CreateSale(r.Context(), ns)
	switch {
	case errors.Is(err, repository.ErrInvalidSale):
		writeError(w, http.StatusBadRequest, "a sale needs at least one item with a positive quantity")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusBadRequest, "unknown product")
	case errors.Is(err, repository.ErrInsufficient):
		writeError(w, http.StatusConflict, "insufficient stock")
	case err != nil:
		b.internalError(w, err)
	default:
		writeJSON(w, http.StatusCreated, sale)
	}
}
