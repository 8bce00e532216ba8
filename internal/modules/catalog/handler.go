package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service     Service
	defaultMode MatchMode
}

func NewHandler(service Service, defaultMode MatchMode) *Handler {
	return &Handler{service: service, defaultMode: defaultMode}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/products/{id}/copy", h.copyProduct)
		r.Get("/categories", h.listCategories)
		r.Get("/export.csv", h.exportCSV)
		r.Get("/export.xlsx", h.exportXLSX)
	})
}

// ParseQuery reads q, category (repeatable), match, sort, dir and lifetime.
func ParseQuery(v url.Values, defaultMode MatchMode) (Query, error) {
	q := Query{
		Text:       v.Get("q"),
		Categories: v["category"],
		Match:      defaultMode,
		Sort:       SortRelevance,
	}
	if m := v.Get("match"); m != "" {
		mode, err := ParseMatchMode(m)
		if err != nil {
			return q, err
		}
		q.Match = mode
	}
	if s := v.Get("sort"); s != "" {
		key, err := ParseSortKey(s)
		if err != nil {
			return q, err
		}
		q.Sort = key
	}
	switch v.Get("dir") {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return q, fmt.Errorf("invalid dir %q", v.Get("dir"))
	}
	if l := v.Get("lifetime"); l != "" {
		only, err := strconv.ParseBool(l)
		if err != nil {
			return q, fmt.Errorf("invalid lifetime flag: %w", err)
		}
		q.OnlyLifetime = only
	}
	return q, nil
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) ([]*Product, bool) {
	q, err := ParseQuery(r.URL.Query(), h.defaultMode)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	products, err := h.service.Search(r.Context(), q)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return products, true
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, ok := h.search(w, r)
	if !ok {
		return
	}
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	respond(w, http.StatusOK, views)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, NewProductView(p))
}

func (h *Handler) copyProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(CopyText(p)))
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Product, bool) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrProductNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return nil, false
	}
	return p, true
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.Categories(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, cats)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	products, ok := h.search(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment("csv"))
	WriteCSV(w, products)
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	products, ok := h.search(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment("xlsx"))
	WriteXLSX(w, products)
}

func attachment(ext string) string {
	return fmt.Sprintf("attachment; filename=pricing-catalog-%d.%s", time.Now().UnixMilli(), ext)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
