package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hanumanlabs/storefront/internal/modules/catalog"
)

// Handler exposes the session cart over JSON. Routes must run behind
// Sessions.Middleware.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.clear)
		r.Post("/items", h.addItem)
		r.Patch("/items/{index}", h.setQty)
		r.Delete("/items/{index}", h.removeItem)
	})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Plan      string `json:"plan"`
	Qty       *int   `json:"qty"`
}

type setQtyRequest struct {
	Qty *int `json:"qty"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), SessionID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, NewView(c))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	plan, err := catalog.ParsePlan(req.Plan)
	if err != nil {
		respondError(w, err)
		return
	}
	qty := 1
	if req.Qty != nil {
		qty = *req.Qty
	}
	c, err := h.service.AddItem(r.Context(), SessionID(r.Context()), req.ProductID, plan, qty)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, NewView(c))
}

func (h *Handler) setQty(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req setQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Qty == nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "qty is required"})
		return
	}
	c, err := h.service.SetQty(r.Context(), SessionID(r.Context()), index, *req.Qty)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, NewView(c))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	c, err := h.service.RemoveItem(r.Context(), SessionID(r.Context()), index)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, NewView(c))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), SessionID(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, NewView(New()))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid line index"})
		return 0, false
	}
	return index, true
}

// StatusFor maps a cart error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, ErrLineOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrUnknownPlan), errors.Is(err, ErrPlanNotOffered),
		errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrNegativeQuantity),
		errors.Is(err, ErrEmptyCart):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
