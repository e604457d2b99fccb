package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/joao-fontenele/storefront-otel-demo/internal/accounts"
	"github.com/joao-fontenele/storefront-otel-demo/internal/catalog"
	"github.com/joao-fontenele/storefront-otel-demo/internal/config"
	"github.com/joao-fontenele/storefront-otel-demo/internal/health"
	"github.com/joao-fontenele/storefront-otel-demo/internal/messaging"
	"github.com/joao-fontenele/storefront-otel-demo/internal/orders"
	"github.com/joao-fontenele/storefront-otel-demo/internal/telemetry"
	"github.com/joao-fontenele/storefront-otel-demo/internal/validation"
)

const (
	serviceName    = "storefront"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var cfg config.Storefront
	if err := config.Load(&cfg, ".env"); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Telemetry.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.OTLPEndpoint, serviceName, serviceVersion)
		if err != nil {
			logger.Error("failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	if err := otelruntime.Start(); err != nil {
		logger.Warn("runtime metrics disabled", "error", err)
	}

	storeMetrics, err := telemetry.NewStoreMetrics()
	if err != nil {
		logger.Error("failed to create instruments", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenPostgres(ctx, cfg.PostgresURL, cfg.DBSchema)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	productRepo := catalog.NewProductRepository(db)
	if cfg.SeedCatalog {
		if _, err := catalog.Seed(ctx, productRepo, logger); err != nil {
			logger.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	var publisher orders.EventPublisher
	if brokers := config.Brokers(cfg.KafkaBrokers); len(brokers) > 0 {
		producer := messaging.NewProducer(brokers, cfg.OrderEventsTopic)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	validate := validation.New()

	catalogHandler := catalog.NewHandler(catalog.NewService(productRepo), logger)
	accountsHandler := accounts.NewHandler(
		accounts.NewService(accounts.NewUserRepository(db), accounts.NewHasher(cfg.BcryptCost), storeMetrics),
		validate, logger,
	)
	ordersHandler := orders.NewHandler(
		orders.NewService(productRepo, orders.NewOrderRepository(db), publisher, storeMetrics, logger),
		validate, logger,
	)
	healthHandler := health.NewHandler(db, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", telemetry.WithHTTPRoute(catalogHandler.HandleList))
	mux.HandleFunc("POST /api/signup", telemetry.WithHTTPRoute(accountsHandler.HandleSignup))
	mux.HandleFunc("POST /api/login", telemetry.WithHTTPRoute(accountsHandler.HandleLogin))
	mux.HandleFunc("GET /api/user/profile", telemetry.WithHTTPRoute(accountsHandler.HandleGetProfile))
	mux.HandleFunc("POST /api/user/profile", telemetry.WithHTTPRoute(accountsHandler.HandleUpdateProfile))
	mux.HandleFunc("GET /api/user/orders", telemetry.WithHTTPRoute(ordersHandler.HandleListForUser))
	mux.HandleFunc("POST /api/orders", telemetry.WithHTTPRoute(ordersHandler.HandleCreate))
	mux.HandleFunc("GET /healthz", healthHandler.HandleHealth)
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "port", cfg.Port, "events", publisher != nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
