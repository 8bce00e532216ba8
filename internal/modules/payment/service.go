package payment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service turns orders into payable links.
type Service interface {
	// CreatePaymentLink builds an unsigned sandbox link and its QR image.
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error)
	// Purchase signs the order and submits it to the gateway.
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)
	// IssueLink produces a link for req using the configured Mode.
	IssueLink(ctx context.Context, req PurchaseRequest) (*PaymentLink, error)
	// Status always reports unpaid; settlement is not integrated.
	Status(ctx context.Context, orderID string) PaymentStatus
	Mode() Mode
}

// Config holds the static settings of the payment service.
type Config struct {
	Mode         Mode
	CheckoutHost string
}

type service struct {
	cfg     Config
	signer  *Signer // nil when no signing material is configured
	gateway Gateway
	log     *zap.Logger
}

// NewService wires the payment service. signer may be nil, in which case
// Purchase and signed IssueLink fail with ErrSigningUnavailable.
func NewService(cfg Config, signer *Signer, gateway Gateway, log *zap.Logger) Service {
	if cfg.Mode == "" {
		cfg.Mode = ModeMock
	}
	return &service{cfg: cfg, signer: signer, gateway: gateway, log: log}
}

func (s *service) Mode() Mode { return s.cfg.Mode }

func (s *service) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	if err := validateOrder(req.OrderID, req.Amount); err != nil {
		return nil, err
	}
	link := MockCheckoutURL(s.cfg.CheckoutHost, req.OrderID, *req.Amount)
	qr, err := QRDataURL(link)
	if err != nil {
		return nil, err
	}
	return &PaymentLink{URL: link, Amount: *req.Amount, QR: qr}, nil
}

func (s *service) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	if err := validateOrder(req.OrderID, req.Amount); err != nil {
		return nil, err
	}
	if s.signer == nil {
		return nil, ErrSigningUnavailable
	}
	payload, err := s.signer.Payload(req)
	if err != nil {
		s.log.Error("signing purchase failed", zap.String("order_id", req.OrderID), zap.Error(err))
		return nil, err
	}
	data, err := s.gateway.Purchase(ctx, payload)
	if err != nil {
		return nil, err
	}
	result := &PurchaseResult{Data: data, PaymentURL: checkoutURL(data)}
	if result.PaymentURL == "" {
		s.log.Warn("gateway response had no checkout url", zap.String("order_id", req.OrderID))
	}
	return result, nil
}

func (s *service) IssueLink(ctx context.Context, req PurchaseRequest) (*PaymentLink, error) {
	if s.cfg.Mode == ModeMock {
		return s.CreatePaymentLink(ctx, PaymentLinkRequest{OrderID: req.OrderID, Amount: req.Amount})
	}
	result, err := s.Purchase(ctx, req)
	if err != nil {
		return nil, err
	}
	if result.PaymentURL == "" {
		return nil, ErrNoCheckoutURL
	}
	qr, err := QRDataURL(result.PaymentURL)
	if err != nil {
		return nil, err
	}
	return &PaymentLink{URL: result.PaymentURL, Amount: *req.Amount, QR: qr}, nil
}

func (s *service) Status(_ context.Context, orderID string) PaymentStatus {
	return PaymentStatus{OrderID: orderID, Paid: false}
}

func validateOrder(orderID string, amount *decimal.Decimal) error {
	if strings.TrimSpace(orderID) == "" || amount == nil || amount.IsZero() {
		return ErrMissingFields
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
