package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hanumanlabs/storefront/internal/modules/cart"
	"github.com/hanumanlabs/storefront/internal/modules/payment"
	"go.uber.org/zap"
)

// Service defines checkout business logic.
type Service interface {
	// Checkout prices the session's cart and issues a payment link for it.
	// The cart is left as it is whether or not a link is issued.
	Checkout(ctx context.Context, sessionID string) (*Order, error)
}

type service struct {
	carts    cart.Service
	payments payment.Service
	log      *zap.Logger
	now      func() time.Time
}

// NewService creates a new checkout service.
func NewService(carts cart.Service, payments payment.Service, log *zap.Logger) Service {
	return &service{carts: carts, payments: payments, log: log, now: time.Now}
}

func (s *service) Checkout(ctx context.Context, sessionID string) (*Order, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	amount := c.Subtotal().Round(2)
	if c.IsEmpty() || !amount.IsPositive() {
		return nil, cart.ErrEmptyCart
	}

	created := s.now()
	o := &Order{
		ID:        NewOrderID(created),
		Amount:    amount,
		Currency:  payment.DefaultCurrency,
		Status:    StatusCreated,
		CreatedAt: created,
	}

	items, err := lineItems(c)
	if err != nil {
		return nil, err
	}
	link, err := s.payments.IssueLink(ctx, payment.PurchaseRequest{
		OrderID:     o.ID,
		Amount:      &o.Amount,
		Currency:    o.Currency,
		Items:       items,
		Description: fmt.Sprintf("Order %s", o.ID),
	})
	if err != nil {
		s.log.Warn("checkout failed",
			zap.String("order_id", o.ID),
			zap.String("mode", string(s.payments.Mode())),
			zap.Error(err))
		return nil, err
	}
	if err := o.Transition(StatusLinkIssued); err != nil {
		return nil, err
	}
	o.PaymentURL = link.URL
	o.QR = link.QR

	s.log.Info("payment link issued",
		zap.String("order_id", o.ID),
		zap.String("amount", o.Amount.StringFixed(2)),
		zap.String("mode", string(s.payments.Mode())))
	return o, nil
}

// lineItems lists the cart lines with a positive quantity.
func lineItems(c *cart.Cart) (json.RawMessage, error) {
	items := make([]item, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.Qty == 0 {
			continue
		}
		items = append(items, item{Name: l.Name, Plan: string(l.Plan), Quantity: l.Qty, Price: l.UnitPrice})
	}
	return json.Marshal(items)
}
