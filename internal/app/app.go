// Package app wires configuration, storage, domain services, and the HTTP
// server into a running process.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/shineway/pos-server/db"
	"github.com/shineway/pos-server/internal/api"
	"github.com/shineway/pos-server/internal/domain/auth"
	"github.com/shineway/pos-server/internal/domain/discount"
	"github.com/shineway/pos-server/internal/domain/menu"
	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/payment"
	"github.com/shineway/pos-server/internal/domain/table"
	"github.com/shineway/pos-server/internal/storage/kvfile"
	"github.com/shineway/pos-server/internal/storage/memory"
	"github.com/shineway/pos-server/internal/storage/postgres"
	"github.com/shineway/pos-server/pkg/health"
	"github.com/shineway/pos-server/pkg/httpmiddleware"
)

// repositories bundles the storage layer behind one driver choice.
type repositories struct {
	menu     menu.Repository
	tables   table.Repository
	orders   order.Repository
	payments payment.Repository
}

// openStorage builds the repositories for the configured driver and
// registers driver-specific readiness checks. The returned cleanup closes
// the driver's resources.
func openStorage(ctx context.Context, cfg *Config, healthSvc *health.Health) (*repositories, func(), error) {
	switch cfg.StorageDriver {
	case DriverMemory:
		menuRepo, err := memory.NewMenuRepositoryFromSeed(db.MenuSeed)
		if err != nil {
			return nil, nil, errors.Wrap(err, "load menu seed")
		}
		return &repositories{
			menu:     menuRepo,
			tables:   memory.NewTableRepository(),
			orders:   memory.NewOrderRepository(),
			payments: memory.NewPaymentRepository(),
		}, func() {}, nil

	case DriverFile:
		store, err := kvfile.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open file storage")
		}
		// The catalog is reference data, served from the embedded seed
		// even when orders and tables live on disk.
		menuRepo, err := memory.NewMenuRepositoryFromSeed(db.MenuSeed)
		if err != nil {
			return nil, nil, errors.Wrap(err, "load menu seed")
		}
		return &repositories{
			menu:     menuRepo,
			tables:   kvfile.NewTableRepository(store),
			orders:   kvfile.NewOrderRepository(store),
			payments: kvfile.NewPaymentRepository(store),
		}, func() {}, nil

	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
		return &repositories{
			menu:     postgres.NewMenuRepository(pool),
			tables:   postgres.NewTableRepository(pool),
			orders:   postgres.NewOrderRepository(pool),
			payments: postgres.NewPaymentRepository(pool),
		}, pool.Close, nil

	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage_driver", cfg.StorageDriver),
	)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	metrics, err := NewMetrics(m.MeterProvider(), m.TracerProvider(), cfg.StorageDriver)
	if err != nil {
		return errors.Wrap(err, "create metrics")
	}

	repos, closeStorage, err := openStorage(ctx, cfg, healthSvc)
	if err != nil {
		return err
	}
	defer closeStorage()

	// Seed the table grid on first start.
	seedCtx, span := metrics.Span(ctx, "app.seed_tables")
	registry := table.NewRegistry(repos.tables)
	err = registry.Initialize(seedCtx)
	span.End()
	if err != nil {
		return errors.Wrap(err, "initialize tables")
	}

	// Promo codes: the ingested filter when configured, the demo set
	// otherwise.
	var codes discount.Codes = discount.DefaultCodes()
	if cfg.PromoFilterPath != "" {
		codes, err = discount.LoadBloomCodes(cfg.PromoFilterPath)
		if err != nil {
			return errors.Wrap(err, "load promo filter")
		}
		lg.Info("Loaded promo filter", zap.String("path", cfg.PromoFilterPath))
	}

	authSvc, err := auth.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return errors.Wrap(err, "create auth service")
	}

	handler := api.NewHandler(
		authSvc,
		menu.NewCatalog(repos.menu),
		registry,
		order.NewStore(repos.orders),
		repos.payments,
		discount.NewService(codes),
	)
	handler.SetMetrics(api.Metrics{
		OrderSaved:       metrics.OrderSaved,
		PaymentCommitted: metrics.PaymentCommitted,
	})

	// Mux: health endpoints + instrumented API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", otelhttp.NewHandler(handler.Router(), "pos-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}
	healthSvc.SetReady(true)

	// Graceful shutdown: flip readiness, drain, then stop the server.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
