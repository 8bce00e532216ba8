package storefront

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hanumanlabs/storefront/internal/modules/cart"
	"github.com/hanumanlabs/storefront/internal/modules/catalog"
	"github.com/hanumanlabs/storefront/internal/modules/order"
	"go.uber.org/zap"
)

// Handler serves the HTML storefront. Routes must run behind the session middleware.
type Handler struct {
	catalog catalog.Service
	carts   cart.Service
	orders  order.Service
	options ViewOptions
	pages   map[string]*template.Template
	log     *zap.Logger
}

func NewHandler(catalogSvc catalog.Service, carts cart.Service, orders order.Service, options ViewOptions, log *zap.Logger) (*Handler, error) {
	if options.CategoryMatchMode == "" {
		options.CategoryMatchMode = catalog.MatchAll
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{catalog: catalogSvc, carts: carts, orders: orders, options: options, pages: pages, log: log}, nil
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/", h.catalogPage)
	r.Get("/cart", h.cartPage)
	r.Post("/cart/add", h.addToCart)
	r.Post("/cart/update", h.updateCart)
	r.Post("/cart/remove", h.removeFromCart)
	r.Post("/checkout", h.checkout)
}

func (h *Handler) catalogPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := catalogPage{
		page:    h.basePage(r, "Shop"),
		Options: h.options,
		Layout:  LayoutGrid,
		Sorts:   sortOptions,
		Plans:   catalog.AllPlans,
	}
	status := http.StatusOK

	values := r.URL.Query()
	switch v := values.Get("view"); v {
	case "", LayoutGrid:
	case LayoutTable:
		data.Layout = LayoutTable
	default:
		status, data.Error = http.StatusBadRequest, "unknown view "+strconv.Quote(v)
	}

	q, err := catalog.ParseQuery(values, h.options.CategoryMatchMode)
	if err != nil {
		status, data.Error = http.StatusBadRequest, err.Error()
		q = catalog.Query{Match: h.options.CategoryMatchMode, Sort: catalog.SortRelevance}
	}
	data.Query = q

	products, err := h.catalog.Search(ctx, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	selected := make(map[string]bool, len(q.Categories))
	for _, c := range q.Categories {
		selected[c] = true
	}
	for _, c := range categories {
		data.Categories = append(data.Categories, categoryOption{Name: c, Selected: selected[c]})
	}
	for _, p := range products {
		data.Products = append(data.Products, h.card(p))
	}

	exportQuery := url.Values{}
	for k, v := range values {
		if k != "view" {
			exportQuery[k] = v
		}
	}
	data.ExportCSV = "/api/v1/catalog/export.csv?" + exportQuery.Encode()
	data.ExportXLSX = "/api/v1/catalog/export.xlsx?" + exportQuery.Encode()

	h.render(w, status, "catalog", data)
}

func (h *Handler) card(p *catalog.Product) productCard {
	c := productCard{Product: p, Plans: p.Plans(), Purchasable: p.Purchasable()}
	if min, ok := p.MinPrice(); ok {
		c.MinPrice = catalog.FormatUSD(min)
	}
	if h.options.ShowCopy {
		c.CopyText = catalog.CopyText(p)
	}
	return c
}

func (h *Handler) cartPage(w http.ResponseWriter, r *http.Request) {
	h.renderCart(w, r, http.StatusOK, "")
}

func (h *Handler) renderCart(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	c, err := h.carts.Get(r.Context(), cart.SessionID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p := h.basePage(r, "Cart")
	p.CartCount = c.Count()
	p.Error = errMsg
	h.render(w, status, "cart", cartPage{page: p, Cart: cart.NewView(c)})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderCart(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	plan, err := catalog.ParsePlan(r.PostForm.Get("plan"))
	if err != nil {
		h.renderCart(w, r, http.StatusBadRequest, err.Error())
		return
	}
	qty := 1
	if s := r.PostForm.Get("qty"); s != "" {
		if qty, err = strconv.Atoi(s); err != nil {
			h.renderCart(w, r, http.StatusBadRequest, "invalid quantity")
			return
		}
	}
	if _, err := h.carts.AddItem(r.Context(), cart.SessionID(r.Context()), r.PostForm.Get("productId"), plan, qty); err != nil {
		h.renderCart(w, r, cart.StatusFor(err), err.Error())
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request) {
	index, qty, ok := h.indexAndQty(w, r, true)
	if !ok {
		return
	}
	if _, err := h.carts.SetQty(r.Context(), cart.SessionID(r.Context()), index, qty); err != nil {
		h.renderCart(w, r, cart.StatusFor(err), err.Error())
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	index, _, ok := h.indexAndQty(w, r, false)
	if !ok {
		return
	}
	if _, err := h.carts.RemoveItem(r.Context(), cart.SessionID(r.Context()), index); err != nil {
		h.renderCart(w, r, cart.StatusFor(err), err.Error())
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Checkout(r.Context(), cart.SessionID(r.Context()))
	if err != nil {
		h.renderCart(w, r, order.StatusFor(err), "Payment error: "+err.Error())
		return
	}
	p := h.basePage(r, "Payment")
	h.render(w, http.StatusOK, "payment", paymentPage{
		page:       p,
		OrderID:    o.ID,
		Amount:     catalog.FormatUSD(o.Amount),
		PaymentURL: o.PaymentURL,
		// QR is a data URL produced by the payment service, never user input.
		QR: template.URL(o.QR),
	})
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (h *Handler) indexAndQty(w http.ResponseWriter, r *http.Request, needQty bool) (int, int, bool) {
	if err := r.ParseForm(); err != nil {
		h.renderCart(w, r, http.StatusBadRequest, "invalid form")
		return 0, 0, false
	}
	index, err := strconv.Atoi(r.PostForm.Get("index"))
	if err != nil {
		h.renderCart(w, r, http.StatusBadRequest, "invalid line index")
		return 0, 0, false
	}
	if !needQty {
		return index, 0, true
	}
	qty, err := strconv.Atoi(r.PostForm.Get("qty"))
	if err != nil {
		h.renderCart(w, r, http.StatusBadRequest, "invalid quantity")
		return 0, 0, false
	}
	return index, qty, true
}

// basePage fills the header data. A failed cart lookup shows an empty badge.
func (h *Handler) basePage(r *http.Request, title string) page {
	p := page{Title: title}
	if c, err := h.carts.Get(r.Context(), cart.SessionID(r.Context())); err == nil {
		p.CartCount = c.Count()
	}
	return p
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("storefront request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
