package storefront

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hanumanlabs/storefront/internal/modules/cart"
	"github.com/hanumanlabs/storefront/internal/modules/catalog"
	"github.com/hanumanlabs/storefront/internal/modules/order"
	"github.com/hanumanlabs/storefront/internal/modules/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorefront(t *testing.T, opts ViewOptions) http.Handler {
	t.Helper()
	catalogSvc := catalog.NewService(catalog.NewStaticRepository(catalog.StaticProducts()))
	carts := cart.NewService(cart.NewMemoryStore(time.Hour), catalogSvc)
	payments := payment.NewService(payment.Config{Mode: payment.ModeMock, CheckoutHost: "https://checkout-sandbox.payway.com.kh"}, nil, nil, zap.NewNop())
	orders := order.NewService(carts, payments, zap.NewNop())

	h, err := NewHandler(catalogSvc, carts, orders, opts, zap.NewNop())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(cart.WithSession(req.Context(), "test-session")))
		})
	})
	h.RegisterRoutes(r)
	return r
}

var allOptions = ViewOptions{CategoryMatchMode: catalog.MatchAll, ShowExport: true, ShowCopy: true}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCatalogPage_Grid(t *testing.T) {
	rec := get(newTestStorefront(t, allOptions), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "21 products")
	assert.Contains(t, body, "Canva Pro")
	assert.Contains(t, body, `class="grid"`)
	assert.Contains(t, body, "from <span class=\"price\">$9.99</span>")
	assert.Contains(t, body, "Export CSV")
	assert.Contains(t, body, "<textarea")
	assert.Contains(t, body, "Cart (0)")
}

func TestCatalogPage_Table(t *testing.T) {
	rec := get(newTestStorefront(t, allOptions), "/?view=table&q=capcut")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "1 products")
	assert.Contains(t, body, "<td>$11.99</td>")
	assert.Contains(t, body, "/api/v1/catalog/export.csv?q=capcut")
	assert.NotContains(t, body, "view=table&amp;")
}

func TestCatalogPage_OptionsHideExportAndCopy(t *testing.T) {
	rec := get(newTestStorefront(t, ViewOptions{}), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Export CSV")
	assert.NotContains(t, rec.Body.String(), "<textarea")
}

func TestCatalogPage_CategoryMatchModeOption(t *testing.T) {
	target := "/?category=VPN&category=Cloud"

	rec := get(newTestStorefront(t, allOptions), target)
	assert.Contains(t, rec.Body.String(), "0 products")
	assert.Contains(t, rec.Body.String(), "No products match")

	anyOpts := allOptions
	anyOpts.CategoryMatchMode = catalog.MatchAny
	rec = get(newTestStorefront(t, anyOpts), target)
	assert.Contains(t, rec.Body.String(), "4 products")
	assert.Contains(t, rec.Body.String(), "any selected")
}

func TestCatalogPage_BadParams(t *testing.T) {
	h := newTestStorefront(t, allOptions)
	for _, target := range []string{"/?sort=cheapest", "/?view=list"} {
		rec := get(h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `role="alert"`, target)
	}
}

func TestCartFlow(t *testing.T) {
	h := newTestStorefront(t, allOptions)

	rec := postForm(h, "/cart/add", url.Values{"productId": {"p3"}, "plan": {"1-Year"}, "qty": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))

	rec = get(h, "/cart")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "CapCut Pro")
	assert.Contains(t, body, "$29.98")
	assert.Contains(t, body, "Cart (2)")

	rec = postForm(h, "/cart/update", url.Values{"index": {"0"}, "qty": {"0"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = get(h, "/cart")
	assert.Contains(t, rec.Body.String(), "Subtotal: <span class=\"price\">$0.00</span>")

	rec = postForm(h, "/cart/remove", url.Values{"index": {"0"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = get(h, "/cart")
	assert.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestCartErrors(t *testing.T) {
	h := newTestStorefront(t, allOptions)

	rec := postForm(h, "/cart/add", url.Values{"productId": {"p999"}, "plan": {"1-Year"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postForm(h, "/cart/add", url.Values{"productId": {"p1"}, "plan": {"6-Month"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "plan is not offered")

	rec = postForm(h, "/cart/update", url.Values{"index": {"0"}, "qty": {"-1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(h, "/cart/remove", url.Values{"index": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout(t *testing.T) {
	h := newTestStorefront(t, allOptions)

	rec := postForm(h, "/checkout", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment error: cart is empty")

	postForm(h, "/cart/add", url.Values{"productId": {"p1"}, "plan": {"Lifetime"}})
	rec = postForm(h, "/checkout", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `src="data:image/png;base64,`)
	assert.Contains(t, body, "Order <strong>HL-")
	assert.Contains(t, body, "$9.99")
	assert.Contains(t, body, "amount=9.99")

	rec = get(h, "/cart")
	assert.Contains(t, rec.Body.String(), "Canva Pro")
}
