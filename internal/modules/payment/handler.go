package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the PayWay link endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/payway", func(r chi.Router) {
		r.Post("/create-payment-link", h.createPaymentLink)
		r.Get("/status", h.status)
		r.Post("/purchase", h.purchase)
	})
}

func (h *Handler) createPaymentLink(w http.ResponseWriter, r *http.Request) {
	var req PaymentLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	link, err := h.service.CreatePaymentLink(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, link)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Status(r.Context(), r.URL.Query().Get("orderId")))
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	result, err := h.service.Purchase(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// StatusFor maps a payment error to its HTTP status.
func StatusFor(err error) int {
	var gwErr *GatewayError
	switch {
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ErrGatewayUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNoCheckoutURL):
		return http.StatusBadGateway
	case errors.As(err, &gwErr):
		if gwErr.Status >= 400 {
			return gwErr.Status
		}
	}
	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, err error) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		respond(w, StatusFor(err), map[string]interface{}{"error": gwErr.Message, "data": gwErr.Data})
		return
	}
	respond(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
