package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hanumanlabs/storefront/internal/modules/catalog"
	"github.com/hanumanlabs/storefront/internal/modules/payment"
	"github.com/joho/godotenv"
)

const (
	defaultAPIURL       = "https://checkout-sandbox.payway.com.kh/api/payment-gateway/v1/payments/purchase"
	defaultCheckoutHost = "https://checkout-sandbox.payway.com.kh"

	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port            string
	AppEnv          string
	ShutdownTimeout time.Duration

	PayWayEnv       string
	Credentials     payment.Credentials
	APIURL          string
	CheckoutHost    string
	CheckoutMode    payment.Mode
	BreakerFailures uint32

	CatalogDatabaseURL string
	RedisAddr          string
	RedisPassword      string

	SessionSecret []byte
	SessionTTL    time.Duration

	CategoryMatchMode catalog.MatchMode
	ShowExport        bool
	ShowCopy          bool
}

// HasSigningMaterial reports whether all three signing values are present.
func (c *Config) HasSigningMaterial() bool {
	return c.Credentials.MerchantID != "" && c.Credentials.PublicKey != "" && c.Credentials.PrivateKeyPEM != ""
}

// Production reports whether the gateway runs against production.
func (c *Config) Production() bool { return c.PayWayEnv == EnvProduction }

// Load reads an optional .env file and the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:            get("APP_PORT", "8080"),
		AppEnv:          get("APP_ENV", "development"),
		ShutdownTimeout: 10 * time.Second,
		PayWayEnv:       strings.ToLower(get("PAYWAY_ENV", EnvSandbox)),
		Credentials: payment.Credentials{
			MerchantID:    get("PAYWAY_MERCHANT_ID", ""),
			PublicKey:     get("PAYWAY_PUBLIC_KEY", ""),
			PrivateKeyPEM: pemValue(getenv("PAYWAY_RSA_PRIVATE_KEY")),
			PublicKeyPEM:  pemValue(getenv("PAYWAY_RSA_PUBLIC_KEY")),
		},
		APIURL:             get("PAYWAY_API_URL", defaultAPIURL),
		CheckoutHost:       get("PAYWAY_CHECKOUT_HOST", defaultCheckoutHost),
		CatalogDatabaseURL: get("CATALOG_DATABASE_URL", ""),
		RedisAddr:          get("REDIS_ADDR", ""),
		RedisPassword:      getenv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.PayWayEnv != EnvSandbox && cfg.PayWayEnv != EnvProduction {
		return nil, fmt.Errorf("PAYWAY_ENV must be %q or %q, got %q", EnvSandbox, EnvProduction, cfg.PayWayEnv)
	}
	if cfg.CheckoutMode, err = payment.ParseMode(strings.ToLower(get("CHECKOUT_MODE", string(payment.ModeMock)))); err != nil {
		return nil, fmt.Errorf("CHECKOUT_MODE: %w", err)
	}
	if cfg.CategoryMatchMode, err = catalog.ParseMatchMode(get("CATEGORY_MATCH_MODE", string(catalog.MatchAll))); err != nil {
		return nil, fmt.Errorf("CATEGORY_MATCH_MODE: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "2h")); err != nil || cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", getenv("SESSION_TTL"))
	}
	if cfg.ShowExport, err = strconv.ParseBool(get("SHOW_EXPORT", "true")); err != nil {
		return nil, fmt.Errorf("SHOW_EXPORT: %w", err)
	}
	if cfg.ShowCopy, err = strconv.ParseBool(get("SHOW_COPY", "true")); err != nil {
		return nil, fmt.Errorf("SHOW_COPY: %w", err)
	}
	failures, err := strconv.ParseUint(get("GATEWAY_BREAKER_FAILURES", "5"), 10, 32)
	if err != nil || failures == 0 {
		return nil, fmt.Errorf("GATEWAY_BREAKER_FAILURES must be a positive integer")
	}
	cfg.BreakerFailures = uint32(failures)

	if secret := getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		cfg.SessionSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.SessionSecret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}

	if err := cfg.validateSigning(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateSigning fails closed: production and signed checkout both need the
// full signing material, and any key that is present must parse.
func (c *Config) validateSigning() error {
	if (c.Production() || c.CheckoutMode == payment.ModeSigned) && !c.HasSigningMaterial() {
		var missing []string
		if c.Credentials.MerchantID == "" {
			missing = append(missing, "PAYWAY_MERCHANT_ID")
		}
		if c.Credentials.PublicKey == "" {
			missing = append(missing, "PAYWAY_PUBLIC_KEY")
		}
		if c.Credentials.PrivateKeyPEM == "" {
			missing = append(missing, "PAYWAY_RSA_PRIVATE_KEY")
		}
		return fmt.Errorf("payway signing material required (PAYWAY_ENV=%s, CHECKOUT_MODE=%s); missing %s",
			c.PayWayEnv, c.CheckoutMode, strings.Join(missing, ", "))
	}
	if c.Credentials.PrivateKeyPEM != "" {
		if _, err := payment.ParsePrivateKey(c.Credentials.PrivateKeyPEM); err != nil {
			return fmt.Errorf("PAYWAY_RSA_PRIVATE_KEY: %w", err)
		}
	}
	if c.Credentials.PublicKeyPEM != "" {
		if _, err := payment.ParsePublicKey(c.Credentials.PublicKeyPEM); err != nil {
			return fmt.Errorf("PAYWAY_RSA_PUBLIC_KEY: %w", err)
		}
	}
	return nil
}

// pemValue accepts PEM with real newlines or with literal \n escapes, as
// single-line .env values usually carry.
func pemValue(v string) string {
	return strings.ReplaceAll(strings.TrimSpace(v), `\n`, "\n")
}
