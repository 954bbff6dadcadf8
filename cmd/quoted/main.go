package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc/credentials"

	"github.com/cuotakiwi/quote-service/internal/application/usecase"
	"github.com/cuotakiwi/quote-service/internal/domain/port"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/adapter"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/cache"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/catalog"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/config"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/kafka"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/pdf"
	pgRepo "github.com/cuotakiwi/quote-service/internal/infrastructure/postgres"
	grpcPresentation "github.com/cuotakiwi/quote-service/internal/presentation/grpc"
	"github.com/cuotakiwi/quote-service/internal/presentation/rest"
	"github.com/cuotakiwi/quote-service/pkg/auth"
	pkgkafka "github.com/cuotakiwi/quote-service/pkg/kafka"
	"github.com/cuotakiwi/quote-service/pkg/observability"
	pkgpostgres "github.com/cuotakiwi/quote-service/pkg/postgres"
	"github.com/cuotakiwi/quote-service/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("quote-service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
	})
	logger.Info("starting quote-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"catalog", cfg.CatalogSource,
		"recalc_strategy", string(cfg.Pricing.RecalcStrategy),
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		SetGlobal:   true,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	checks := map[string]rest.ReadinessCheck{}
	errCh := make(chan error, 3)

	// Pre-approval source.
	var source port.PreApprovalSource
	if cfg.PreApproval.URL != "" {
		source = adapter.NewPreApprovalClient(adapter.PreApprovalClientConfig{
			URL:        cfg.PreApproval.URL,
			Timeout:    cfg.PreApproval.Timeout,
			MaxRetries: cfg.PreApproval.MaxRetries,
		}, nil, logger)
	} else {
		logger.Warn("PREAPPROVAL_URL not set, using the stub pre-approval source")
		source = adapter.NewStubPreApprovalSource()
	}

	var preApprovalCache port.PreApprovalCache
	if cfg.Redis.Enabled() {
		client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = client.Close() }() //nolint:errcheck
		preApprovalCache = cache.NewRedisPreApprovalCache(client, cfg.Redis.TTL)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	// Event publisher.
	var publisher port.EventPublisher = kafka.NewLogEventPublisher(logger)
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.GroupID,
		TLS:           cfg.Kafka.TLS,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
	if cfg.Kafka.Enabled() {
		producer, perr := pkgkafka.NewProducer(kafkaCfg)
		if perr != nil {
			return fmt.Errorf("kafka producer: %w", perr)
		}
		defer func() { _ = producer.Close() }() //nolint:errcheck
		publisher = kafka.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic, logger)
	}

	// Rate product catalog.
	fallback := port.RateProduct{
		SurchargeRate:    cfg.Pricing.SurchargeRate,
		InsuranceLoading: cfg.Pricing.InsuranceLoading,
	}
	var rateCatalog port.RateProductCatalog = catalog.NewStaticCatalog(fallback.SurchargeRate, fallback.InsuranceLoading)
	if cfg.CatalogSource == config.CatalogPostgres {
		pool, perr := openDatabase(ctx, cfg.DB, logger)
		if perr != nil {
			return perr
		}
		defer pool.Close()
		checks["postgres"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }

		snapshot := catalog.NewSnapshotCatalog(pgRepo.NewRateProductRepo(pool), fallback, logger)
		if rerr := snapshot.Reload(ctx); rerr != nil {
			logger.Warn("initial catalog load failed, serving configured defaults", "error", rerr)
		}
		rateCatalog = snapshot

		if cfg.Kafka.Enabled() {
			handler := kafka.NewCatalogUpdateHandler(pgRepo.NewTxRateProductWriter(pool), snapshot, logger)
			consumer, cerr := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.CatalogTopic, handler.Handle, logger)
			if cerr != nil {
				return fmt.Errorf("kafka consumer: %w", cerr)
			}
			defer func() { _ = consumer.Close() }() //nolint:errcheck
			go func() {
				if err := consumer.Start(ctx); err != nil {
					errCh <- fmt.Errorf("catalog consumer: %w", err)
				}
			}()
		}
	}

	quotes, err := usecase.NewQuoteUseCases(usecase.Dependencies{
		Source:        source,
		Cache:         preApprovalCache,
		Catalog:       rateCatalog,
		Publisher:     publisher,
		Renderer:      pdf.NewQuoteSheetRenderer(cfg.Pricing.Currency, cfg.Pricing.RoundingScale),
		Currency:      cfg.Pricing.Currency,
		RoundingScale: cfg.Pricing.RoundingScale,
		Strategy:      cfg.Pricing.RecalcStrategy,
		Meter:         meterProvider.Meter(cfg.ServiceName),
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("wire use cases: %w", err)
	}

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return err
	}

	var (
		grpcCreds credentials.TransportCredentials
		httpTLS   *tls.Config
	)
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		if grpcCreds, err = tlsutil.ServerCredentials(cfg.TLSCertFile, cfg.TLSKeyFile); err != nil {
			return err
		}
		if httpTLS, err = tlsutil.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile); err != nil {
			return err
		}
	}

	// gRPC server.
	grpcServer := grpcPresentation.NewServer(grpcPresentation.NewQuoteHandler(quotes), logger, grpcPresentation.ServerOptions{
		JWT:        jwtSvc,
		Creds:      grpcCreds,
		Reflection: cfg.GRPCReflection,
	})

	// HTTP server.
	routerCfg := rest.RouterConfig{
		Quotes:  rest.NewQuoteHandler(quotes, logger),
		Health:  rest.NewHealthHandler(cfg.ServiceName, checks, logger),
		Metrics: metricsHandler,
		Logger:  logger,
	}
	if jwtSvc != nil {
		routerCfg.Auth = auth.HTTPMiddleware(jwtSvc, nil)
	}
	if cfg.HTTPRateLimit > 0 {
		routerCfg.RateLimit = rest.NewRateLimiter(cfg.HTTPRateLimit)
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           rest.NewRouter(routerCfg),
		TLSConfig:         httpTLS,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort, "tls", httpTLS != nil)
		var err error
		if httpTLS != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("quote-service stopped")
	return runErr
}

func openDatabase(ctx context.Context, db config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	pgCfg := pkgpostgres.Config{
		Host:     db.Host,
		Port:     db.Port,
		User:     db.User,
		Password: db.Password,
		Database: db.Name,
		SSLMode:  db.SSLMode,
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(pgCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return pool, nil
}

// newJWTService returns nil when no verification key is configured, which
// leaves both transports unauthenticated.
func newJWTService(a config.AuthConfig) (*auth.JWTService, error) {
	if !a.Enabled() {
		return nil, nil
	}
	jwtCfg := auth.JWTConfig{
		Issuer:        "cuotakiwi-gateway",
		RequiredRoles: []string{auth.RoleAdvisor, auth.RoleAPIClient, auth.RoleAdmin},
	}
	switch {
	case a.JWTPublicKey != "":
		jwtCfg.PublicKeyPEM = a.JWTPublicKey
	case a.JWTPublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(a.JWTPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key file: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = a.JWTSecret
	}
	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("init JWT service: %w", err)
	}
	return svc, nil
}
