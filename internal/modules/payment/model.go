package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Mode selects how a storefront checkout turns an order into a payment link.
type Mode string

const (
	// ModeMock builds an unsigned sandbox checkout URL locally.
	ModeMock Mode = "mock"
	// ModeSigned signs the order and asks the gateway for a checkout URL.
	ModeSigned Mode = "signed"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMock:
		return ModeMock, nil
	case ModeSigned:
		return ModeSigned, nil
	}
	return "", fmt.Errorf("unknown checkout mode %q", s)
}

const DefaultCurrency = "USD"

var (
	ErrMissingFields      = errors.New("missing orderId or amount")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrSigningUnavailable = errors.New("payway signing is not configured")
	ErrNoCheckoutURL      = errors.New("gateway response did not contain a checkout url")
	ErrGatewayUnavailable = errors.New("payment gateway temporarily unavailable")
)

// GatewayError is a non-2xx answer from the payment gateway.
type GatewayError struct {
	Status  int
	Message string
	Data    map[string]interface{}
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payway returned %d: %s", e.Status, e.Message)
}

// ── Request/Response DTOs ─────────────────────────────────────────────────────

// PaymentLinkRequest is the body of POST /api/payway/create-payment-link.
type PaymentLinkRequest struct {
	OrderID string           `json:"orderId"`
	Amount  *decimal.Decimal `json:"amount"`
}

// PaymentLink is a checkout URL and its scannable rendering.
type PaymentLink struct {
	URL    string          `json:"url"`
	Amount decimal.Decimal `json:"-"`
	QR     string          `json:"qr"`
}

// MarshalJSON writes amount as a JSON number.
func (l PaymentLink) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URL    string      `json:"url"`
		Amount json.Number `json:"amount"`
		QR     string      `json:"qr"`
	}{l.URL, json.Number(l.Amount.String()), l.QR})
}

// PurchaseRequest is the body of POST /api/payway/purchase.
type PurchaseRequest struct {
	OrderID     string           `json:"orderId"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency,omitempty"`
	Items       json.RawMessage  `json:"items,omitempty"`
	Description string           `json:"description,omitempty"`
	ReturnURL   string           `json:"returnUrl,omitempty"`
	CancelURL   string           `json:"cancelUrl,omitempty"`
}

// PurchasePayload is the signed body sent to the gateway purchase endpoint.
type PurchasePayload struct {
	MerchantID    string          `json:"merchant_id"`
	OrderID       string          `json:"order_id"`
	Amount        string          `json:"amount"`
	Currency      string          `json:"currency"`
	Items         json.RawMessage `json:"items"`
	ReturnURL     string          `json:"return_url,omitempty"`
	CancelURL     string          `json:"cancel_url,omitempty"`
	Description   string          `json:"description"`
	PublicKey     string          `json:"public_key"`
	Signature     string          `json:"signature"`
	SignatureType string          `json:"signature_type"`
	HMAC          string          `json:"hmac"`
	Canonical     string          `json:"canonical"`
}

// PurchaseResult is the gateway body plus the checkout URL found in it, if any.
type PurchaseResult struct {
	Data       map[string]interface{} `json:"data"`
	PaymentURL string                 `json:"payment_url,omitempty"`
}

// PaymentStatus answers GET /api/payway/status.
type PaymentStatus struct {
	OrderID string `json:"orderId"`
	Paid    bool   `json:"paid"`
}
