package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "CREATED"
	StatusLinkIssued OrderStatus = "LINK_ISSUED"
	StatusPaid       OrderStatus = "PAID"
	StatusExpired    OrderStatus = "EXPIRED"
)

// validTransitions defines the allowed status state machine. PAID and
// EXPIRED are reached only by settlement, which this service does not do.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated:    {StatusLinkIssued},
	StatusLinkIssued: {StatusPaid, StatusExpired},
	StatusPaid:       {},
	StatusExpired:    {},
}

var ErrInvalidTransition = errors.New("invalid status transition")

// Order is a checkout attempt for one session's cart. Orders are not stored.
type Order struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     OrderStatus     `json:"status"`
	PaymentURL string          `json:"paymentUrl,omitempty"`
	QR         string          `json:"qr,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Transition moves the order to next if the state machine allows it.
func (o *Order) Transition(next OrderStatus) error {
	for _, allowed := range validTransitions[o.Status] {
		if allowed == next {
			o.Status = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
}

// NewOrderID formats the order reference shown to shoppers and sent to the gateway.
func NewOrderID(t time.Time) string {
	return fmt.Sprintf("HL-%d", t.UnixMilli())
}

// item is the line shape sent to the gateway with a signed purchase.
type item struct {
	Name     string          `json:"name"`
	Plan     string          `json:"plan"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}
