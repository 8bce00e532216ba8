package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hanumanlabs/storefront/internal/modules/cart"
	"github.com/hanumanlabs/storefront/internal/modules/payment"
)

// Handler exposes checkout over JSON. Routes must run behind the session middleware.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/checkout", h.checkout) // POST /api/v1/checkout
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Checkout(r.Context(), cart.SessionID(r.Context()))
	if err != nil {
		var gwErr *payment.GatewayError
		if errors.As(err, &gwErr) {
			respond(w, StatusFor(err), map[string]interface{}{"error": gwErr.Message, "data": gwErr.Data})
			return
		}
		respond(w, StatusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, o)
}

// StatusFor maps a checkout error to its HTTP status.
func StatusFor(err error) int {
	if errors.Is(err, cart.ErrEmptyCart) {
		return http.StatusBadRequest
	}
	return payment.StatusFor(err)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
