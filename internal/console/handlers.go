package console

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ghaggin/erp-console/internal/client"
	"github.com/ghaggin/erp-console/internal/model"
	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/ghaggin/erp-console/internal/session"
	"github.com/ghaggin/erp-console/internal/template"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sessionExpired = "Your session has expired. Please sign in again."

type loginContent struct {
	From     string
	Username string
}

type dashboardContent struct {
	Summary  *model.DashboardSummary
	Stats    *model.ProductStats
	LowStock []model.Product
}

type productsContent struct {
	Query string
	Page  *model.Page[model.Product]
}

type customersContent struct {
	Page *model.Page[model.Customer]
}

type salesContent struct {
	Filter   client.SalesQuery
	MinTotal string
	Page     *model.Page[model.Sale]
}

type productFormContent struct {
	Product model.Product
}

// saleFormRows is how many item lines the new sale form offers.
const saleFormRows = 5

type saleFormContent struct {
	CustomerName string
	Products     []model.Product
	Rows         []model.NewSaleItem
}

type stockContent struct {
	Threshold int
	Products  []model.Product
}

func (c *Console) page(r *http.Request, title string, content any) *template.Data {
	user, _ := c.sessions.User()
	return &template.Data{
		PageTitle: title,
		User:      user,
		Flash:     c.browser.PopFlash(r.Context()),
		Content:   content,
	}
}

func (c *Console) render(w http.ResponseWriter, r *http.Request, status int, tmpl string, td *template.Data) {
	if err := template.RenderStatus(w, r, status, tmpl, td); err != nil {
		c.log.Error("failed rendering template", zap.String("template", tmpl), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail handles an error returned by the ERP API. A rejected token has
// already been cleared by the pipeline; the navigator then holds the login
// redirect. Anything else is shown to the operator.
func (c *Console) fail(w http.ResponseWriter, r *http.Request, err error) {
	if target, ok := c.tracker.TakeRedirect(); ok {
		c.browser.Flash(r.Context(), sessionExpired)
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	status := http.StatusBadGateway
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		status = apiErr.Status
	}

	c.log.Warn("api call failed", zap.String("path", r.URL.Path), zap.Error(err))

	td := c.page(r, "error", nil)
	td.Error = client.Message(err)
	c.render(w, r, status, "error.html", td)
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (c *Console) loginForm(w http.ResponseWriter, r *http.Request) {
	from := navigation.ReturnPath(r.URL.Query().Get("from"))
	if c.sessions.IsAuthenticated() {
		// revalidate before skipping the form
		err := c.sessions.Refresh(r.Context())
		if err == nil {
			http.Redirect(w, r, from, http.StatusSeeOther)
			return
		}
		c.log.Info("stored session no longer valid", zap.Error(err))
		c.tracker.TakeRedirect()
	}

	c.render(w, r, http.StatusOK, "login.html", c.page(r, "login", loginContent{From: from}))
}

func (c *Console) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	from := navigation.ReturnPath(r.PostFormValue("from"))

	err := c.sessions.Login(r.Context(), username, r.PostFormValue("password"))
	if err == nil {
		http.Redirect(w, r, from, http.StatusSeeOther)
		return
	}

	// the operator is already on the login view
	c.tracker.TakeRedirect()

	status := http.StatusBadGateway
	var authErr *session.AuthError
	var apiErr *client.APIError
	switch {
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		status = http.StatusUnauthorized
	}

	td := c.page(r, "login", loginContent{From: from, Username: username})
	td.Error = client.Message(err)
	c.render(w, r, status, "login.html", td)
}

func (c *Console) logout(w http.ResponseWriter, r *http.Request) {
	c.sessions.Logout(r.Context())

	c.tracker.TakeRedirect()
	http.Redirect(w, r, c.loginPath, http.StatusSeeOther)
}

func (c *Console) dashboard(w http.ResponseWriter, r *http.Request) {
	content := dashboardContent{}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		content.Summary, err = c.api.DashboardSummary(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		content.Stats, err = c.api.ProductStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		content.LowStock, err = c.api.LowStockProducts(ctx, lowStockThreshold)
		return err
	})
	if err := g.Wait(); err != nil {
		c.fail(w, r, err)
		return
	}

	c.render(w, r, http.StatusOK, "dashboard.html", c.page(r, "dashboard", content))
}

func (c *Console) products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page, err := c.api.ListProducts(r.Context(), client.ProductQuery{
		Q:    q,
		Page: queryInt(r, "page", 0),
		Size: queryInt(r, "size", 10),
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.render(w, r, http.StatusOK, "products.html", c.page(r, "products", productsContent{Query: q, Page: page}))
}

func (c *Console) customers(w http.ResponseWriter, r *http.Request) {
	page, err := c.api.ListCustomers(r.Context(), client.PageQuery{
		Q:    r.URL.Query().Get("q"),
		Page: queryInt(r, "page", 0),
		Size: queryInt(r, "size", 10),
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.render(w, r, http.StatusOK, "customers.html", c.page(r, "customers", customersContent{Page: page}))
}

func (c *Console) sales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	content := salesContent{
		Filter: client.SalesQuery{
			Page:     queryInt(r, "page", 0),
			Size:     queryInt(r, "size", 10),
			Customer: strings.TrimSpace(q.Get("customer")),
			DateFrom: q.Get("dateFrom"),
			DateTo:   q.Get("dateTo"),
		},
		MinTotal: q.Get("minTotal"),
	}
	if n, err := strconv.ParseFloat(content.MinTotal, 64); err == nil {
		content.Filter.MinTotal = &n
	}

	page, err := c.api.ListSales(r.Context(), content.Filter)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	content.Page = page

	c.render(w, r, http.StatusOK, "sales.html", c.page(r, "sales", content))
}

// rejected reports whether err is the API refusing submitted data, which
// belongs on the form rather than the error page.
func rejected(err error) (*client.APIError, bool) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusUnauthorized {
		return apiErr, true
	}
	return nil, false
}

func (c *Console) newProductForm(w http.ResponseWriter, r *http.Request) {
	content := productFormContent{Product: model.Product{Active: true}}
	c.render(w, r, http.StatusOK, "product_new.html", c.page(r, "new product", content))
}

func (c *Console) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := productFromForm(r)
	if err != nil {
		td := c.page(r, "new product", productFormContent{Product: p})
		td.Error = err.Error()
		c.render(w, r, http.StatusBadRequest, "product_new.html", td)
		return
	}

	created, err := c.api.CreateProduct(r.Context(), p)
	if apiErr, ok := rejected(err); ok {
		td := c.page(r, "new product", productFormContent{Product: p})
		td.Error = apiErr.Message
		c.render(w, r, apiErr.Status, "product_new.html", td)
		return
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.browser.Flash(r.Context(), fmt.Sprintf("Product %s created.", created.SKU))
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func productFromForm(r *http.Request) (model.Product, error) {
	p := model.Product{
		SKU:      strings.TrimSpace(r.PostFormValue("sku")),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Category: strings.TrimSpace(r.PostFormValue("category")),
		Active:   r.PostFormValue("active") != "",
	}

	var err error
	if p.SalePrice, err = formFloat(r, "salePrice"); err != nil {
		return p, err
	}
	if p.CostPrice, err = formFloat(r, "costPrice"); err != nil {
		return p, err
	}
	if p.Stock, err = formInt(r, "stock"); err != nil {
		return p, err
	}
	if p.StockMin, err = formInt(r, "stockMin"); err != nil {
		return p, err
	}
	return p, nil
}

func formFloat(r *http.Request, key string) (float64, error) {
	v := strings.TrimSpace(r.PostFormValue(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return n, nil
}

func formInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.PostFormValue(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return n, nil
}

func (c *Console) newSaleForm(w http.ResponseWriter, r *http.Request) {
	c.renderSaleForm(w, r, http.StatusOK, "", saleFormContent{})
}

func (c *Console) renderSaleForm(w http.ResponseWriter, r *http.Request, status int, msg string, content saleFormContent) {
	active := true
	page, err := c.api.ListProducts(r.Context(), client.ProductQuery{Size: 100, Active: &active})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	content.Products = page.Content
	for len(content.Rows) < saleFormRows {
		content.Rows = append(content.Rows, model.NewSaleItem{})
	}

	td := c.page(r, "new sale", content)
	td.Error = msg
	c.render(w, r, status, "sale_new.html", td)
}

func (c *Console) createSale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content := saleFormContent{CustomerName: strings.TrimSpace(r.PostFormValue("customerName"))}
	sale := model.NewSale{CustomerName: content.CustomerName}

	ids, quantities := r.PostForm["productId"], r.PostForm["quantity"]
	for i := range ids {
		id, err := strconv.Atoi(ids[i])
		if err != nil {
			continue
		}
		qty := 0
		if i < len(quantities) {
			qty, _ = strconv.Atoi(quantities[i])
		}
		item := model.NewSaleItem{ProductID: id, Quantity: qty}
		content.Rows = append(content.Rows, item)
		sale.Items = append(sale.Items, item)
	}

	if len(sale.Items) == 0 {
		c.renderSaleForm(w, r, http.StatusBadRequest, "Add at least one product.", content)
		return
	}

	created, err := c.api.CreateSale(r.Context(), sale)
	if apiErr, ok := rejected(err); ok {
		c.renderSaleForm(w, r, apiErr.Status, apiErr.Message, content)
		return
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.browser.Flash(r.Context(), fmt.Sprintf("Sale #%d recorded: %s.", created.ID, template.Money(created.Total)))
	http.Redirect(w, r, "/sales", http.StatusSeeOther)
}

func (c *Console) stock(w http.ResponseWriter, r *http.Request) {
	threshold := queryInt(r, "threshold", lowStockThreshold)
	products, err := c.api.LowStockProducts(r.Context(), threshold)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.render(w, r, http.StatusOK, "stock.html", c.page(r, "stock", stockContent{Threshold: threshold, Products: products}))
}

func (c *Console) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}

	_, err = c.api.AdjustStock(r.Context(), id, model.StockAdjustment{
		Type:     r.PostFormValue("type"),
		Quantity: quantity,
		Note:     r.PostFormValue("note"),
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/stock", http.StatusSeeOther)
}
