package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hanumanlabs/storefront/internal/config"
	"github.com/hanumanlabs/storefront/internal/logging"
	"github.com/hanumanlabs/storefront/internal/modules/cart"
	"github.com/hanumanlabs/storefront/internal/modules/catalog"
	"github.com/hanumanlabs/storefront/internal/modules/order"
	"github.com/hanumanlabs/storefront/internal/modules/payment"
	"github.com/hanumanlabs/storefront/internal/modules/storefront"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// ── Catalog ─────────────────────────────────────────────
	catalogRepo, closeDB := openCatalogRepository(cfg, logger)
	defer closeDB()
	catalogService := catalog.NewService(catalogRepo)

	// ── Cart sessions ───────────────────────────────────────
	cartStore, closeRedis := openCartStore(cfg, logger)
	defer closeRedis()
	cartService := cart.NewService(cartStore, catalogService)
	sessions := cart.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.Production())

	// ── Payments ────────────────────────────────────────────
	var signer *payment.Signer
	if cfg.HasSigningMaterial() {
		if signer, err = payment.NewSigner(cfg.Credentials); err != nil {
			logger.Fatal("payway signer", zap.Error(err))
		}
	} else {
		logger.Warn("payway signing material not configured; signed purchases are disabled")
	}
	gateway := payment.NewPayWayGateway(payment.GatewayConfig{
		APIURL:          cfg.APIURL,
		BreakerFailures: cfg.BreakerFailures,
	}, logger)
	paymentService := payment.NewService(payment.Config{
		Mode:         cfg.CheckoutMode,
		CheckoutHost: cfg.CheckoutHost,
	}, signer, gateway, logger)

	orderService := order.NewService(cartService, paymentService, logger)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(sessions.Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	catalog.NewHandler(catalogService, cfg.CategoryMatchMode).RegisterRoutes(router)
	cart.NewHandler(cartService).RegisterRoutes(router)
	payment.NewHandler(paymentService).RegisterRoutes(router)
	order.NewHandler(orderService).RegisterRoutes(router)

	pages, err := storefront.NewHandler(catalogService, cartService, orderService, storefront.ViewOptions{
		CategoryMatchMode: cfg.CategoryMatchMode,
		ShowExport:        cfg.ShowExport,
		ShowCopy:          cfg.ShowCopy,
	}, logger)
	if err != nil {
		logger.Fatal("storefront templates", zap.Error(err))
	}
	pages.RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting",
			zap.String("addr", srv.Addr),
			zap.String("payway_env", cfg.PayWayEnv),
			zap.String("checkout_mode", string(cfg.CheckoutMode)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// openCatalogRepository uses Postgres when configured and reachable, else the
// built-in catalog.
func openCatalogRepository(cfg *config.Config, logger *zap.Logger) (catalog.Repository, func()) {
	static := catalog.NewStaticRepository(catalog.StaticProducts())
	if cfg.CatalogDatabaseURL == "" {
		return static, func() {}
	}

	db, err := sql.Open("postgres", cfg.CatalogDatabaseURL)
	if err != nil {
		logger.Warn("catalog database unavailable, using built-in catalog", zap.Error(err))
		return static, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Warn("catalog database unavailable, using built-in catalog", zap.Error(err))
		return static, func() {}
	}
	logger.Info("catalog served from postgres")
	return catalog.NewPostgresRepository(db), func() { db.Close() }
}

// openCartStore uses Redis when configured and reachable, else process memory.
func openCartStore(cfg *config.Config, logger *zap.Logger) (cart.Store, func()) {
	if cfg.RedisAddr == "" {
		return cart.NewMemoryStore(cfg.SessionTTL), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		logger.Warn("redis unavailable, keeping cart sessions in memory", zap.Error(err))
		return cart.NewMemoryStore(cfg.SessionTTL), func() {}
	}
	logger.Info("cart sessions stored in redis", zap.String("addr", cfg.RedisAddr))
	return cart.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }
}
