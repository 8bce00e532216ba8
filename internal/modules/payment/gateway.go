package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Gateway submits a signed purchase and returns the decoded response body.
// A non-2xx answer comes back as *GatewayError.
type Gateway interface {
	Purchase(ctx context.Context, payload *PurchasePayload) (map[string]interface{}, error)
}

// GatewayConfig configures the PayWay HTTP adapter.
type GatewayConfig struct {
	APIURL string
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open before a trial request.
	BreakerCooldown time.Duration
	Timeout         time.Duration
}

// ── PayWay Adapter ────────────────────────────────────────────────────────────

type paywayGateway struct {
	apiURL  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[map[string]interface{}]
	log     *zap.Logger
}

func NewPayWayGateway(cfg GatewayConfig, log *zap.Logger) Gateway {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	g := &paywayGateway{
		apiURL: cfg.APIURL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
	failures := cfg.BreakerFailures
	g.breaker = gobreaker.NewCircuitBreaker[map[string]interface{}](gobreaker.Settings{
		Name:    "payway",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Client errors are the caller's fault, not the gateway's.
		IsSuccessful: func(err error) bool {
			var gwErr *GatewayError
			if errors.As(err, &gwErr) {
				return gwErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return g
}

func (g *paywayGateway) Purchase(ctx context.Context, payload *PurchasePayload) (map[string]interface{}, error) {
	body, err := g.breaker.Execute(func() (map[string]interface{}, error) {
		return g.post(ctx, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrGatewayUnavailable
	}
	return body, err
}

func (g *paywayGateway) post(ctx context.Context, payload *PurchasePayload) (map[string]interface{}, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode purchase payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build purchase request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("payway request failed", zap.String("order_id", payload.OrderID), zap.Error(err))
		return nil, fmt.Errorf("payway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payway response: %w", err)
	}
	// An unparseable body is treated as an empty object.
	data := map[string]interface{}{}
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		data = map[string]interface{}{}
	}

	g.log.Info("payway purchase",
		zap.String("order_id", payload.OrderID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := stringFromMap(data, "message")
		if msg == "" {
			msg = "PayWay error"
		}
		return data, &GatewayError{Status: resp.StatusCode, Message: msg, Data: data}
	}
	return data, nil
}

// checkoutURL probes the gateway body for a checkout link in priority order.
func checkoutURL(data map[string]interface{}) string {
	if u := stringFromMap(data, "payment_url", "url", "checkout_url"); u != "" {
		return u
	}
	if nested, ok := data["data"].(map[string]interface{}); ok {
		return stringFromMap(nested, "checkout_url", "url")
	}
	return ""
}

// stringFromMap tries multiple keys and returns the first non-empty string value.
func stringFromMap(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
