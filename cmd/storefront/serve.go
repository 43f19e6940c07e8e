package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/promostore/storefront/internal/catalog"
	"github.com/promostore/storefront/internal/handlers"
	"github.com/promostore/storefront/internal/payments"
	"github.com/promostore/storefront/internal/platform/auth"
	"github.com/promostore/storefront/internal/platform/config"
	"github.com/promostore/storefront/internal/platform/httpx"
	"github.com/promostore/storefront/internal/platform/metrics"
	"github.com/promostore/storefront/internal/platform/observability"
	"github.com/promostore/storefront/internal/platform/postgres"
	"github.com/promostore/storefront/internal/repositories"
	pgrepo "github.com/promostore/storefront/internal/repositories/postgres"
	"github.com/promostore/storefront/internal/services"
)

func newServeCmd(envFile *string) *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *envFile, catalogFile)
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "product table to serve instead of the embedded one")
	return cmd
}

func serve(ctx context.Context, envFile, catalogFile string) error {
	startedAt := time.Now().UTC()

	cfg, err := config.Load(ctx, config.WithEnvFile(envFile))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("storefront").With(zap.String("environment", cfg.Build.Environment))

	products, err := loadCatalog(catalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.Int("products", products.Len()))

	reg := metrics.New()

	provider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
		APIKey: cfg.Checkout.StripeSecretKey,
		Logger: payments.StripeLogger(observability.NewEventLogger(logger.Named("stripe"))),
	})
	if err != nil {
		return fmt.Errorf("initialise stripe: %w", err)
	}
	checkoutService, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Payments: provider,
		Currency: cfg.Checkout.Currency,
		Logger:   observability.NewEventLogger(logger.Named("checkout")),
		Metrics:  reg,
	})
	if err != nil {
		return fmt.Errorf("initialise checkout: %w", err)
	}

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Products: products,
		Renderer: catalog.NewRenderer(),
		Logger:   observability.NewEventLogger(logger.Named("catalog")),
	})
	if err != nil {
		return fmt.Errorf("initialise catalog service: %w", err)
	}

	checks := []repositories.DependencyCheck{{
		Name: "catalog",
		Check: func(context.Context) error {
			if products.Len() == 0 {
				return errors.New("catalog is empty")
			}
			return nil
		},
	}}

	var (
		verifier    auth.TokenVerifier
		teamService services.TeamService
	)
	if cfg.Supabase.Enabled() {
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.Supabase.DatabaseURL,
			MaxConns:    int32(cfg.Supabase.MaxDBConns),
		})
		if err != nil {
			return fmt.Errorf("connect supabase: %w", err)
		}
		defer pool.Close()

		members, err := pgrepo.NewTeamMemberRepository(pool, cfg.Supabase.QueryTimeout)
		if err != nil {
			return fmt.Errorf("initialise team repository: %w", err)
		}
		teamService, err = services.NewTeamService(services.TeamServiceDeps{
			Members: members,
			Logger:  observability.NewEventLogger(logger.Named("team")),
			Metrics: reg,
		})
		if err != nil {
			return fmt.Errorf("initialise team service: %w", err)
		}
		supabaseVerifier, err := auth.NewSupabaseVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.JWTAudience)
		if err != nil {
			return fmt.Errorf("initialise token verifier: %w", err)
		}
		verifier = supabaseVerifier

		checks = append(checks, repositories.DependencyCheck{Name: "postgres", Check: pool.Ping})
	} else {
		logger.Warn("supabase database not configured; admin area disabled")
	}

	healthRepo, err := repositories.NewDependencyHealthRepository(checks)
	if err != nil {
		return fmt.Errorf("initialise health checks: %w", err)
	}
	systemService, err := services.NewSystemService(services.SystemServiceDeps{
		HealthRepository: healthRepo,
		Build: services.BuildInfo{
			Version:     buildVersion(cfg),
			CommitSHA:   firstNonEmpty(commit, cfg.Build.CommitSHA),
			Environment: cfg.Build.Environment,
			StartedAt:   startedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("initialise system service: %w", err)
	}

	productHandlers := handlers.NewProductHandlers(catalogService)
	adminHandlers := handlers.NewAdminHandlers(verifier, teamService, cfg.Admin.BasePath)

	opts := []handlers.Option{
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(),
			observability.RecoveryMiddleware(logger),
			observability.RequestLoggerMiddleware(),
		),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(handlers.WithHealthSystemService(systemService))),
		handlers.WithCORS(httpx.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAgeSeconds:  int(cfg.CORS.MaxAge / time.Second),
		}),
		handlers.WithCheckoutRoutes(handlers.NewCheckoutHandlers(checkoutService).Routes),
		handlers.WithPublicRoutes(productHandlers.APIRoutes),
		handlers.WithStorefrontRoutes(productHandlers.PageRoutes),
		handlers.WithAdminRoutes(adminHandlers.BasePath(), adminHandlers.Routes),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts,
			handlers.WithMiddlewares(reg.Middleware),
			handlers.WithMetricsHandler(cfg.Metrics.Path, reg.Handler()),
		)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handlers.NewRouter(opts...),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("storefront listening",
			zap.String("addr", server.Addr),
			zap.String("version", buildVersion(cfg)),
			zap.Bool("admin_enabled", cfg.Supabase.Enabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received; draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func buildVersion(cfg config.Config) string {
	if version != "dev" {
		return version
	}
	return cfg.Build.Version
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
