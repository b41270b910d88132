// CBarrera | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cbarrera-dev/storefront/internal/auth"
	"github.com/cbarrera-dev/storefront/internal/cart"
	"github.com/cbarrera-dev/storefront/internal/catalog"
	"github.com/cbarrera-dev/storefront/internal/config"
	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/health"
	"github.com/cbarrera-dev/storefront/internal/middleware"
	"github.com/cbarrera-dev/storefront/internal/server"
	"github.com/cbarrera-dev/storefront/internal/upload"
	"github.com/cbarrera-dev/storefront/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("generate-keys", false, "generate an ES256 key pair and exit")
	flag.Parse()

	if err := run(*configPath, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, genKeys bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if genKeys {
		return auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("mongodb connected",
		"database", cfg.Database.Name,
		"max_pool_size", cfg.Database.MaxPoolSize,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized", "algorithm", "ES256")

	uploader, err := upload.NewCloudinaryUploader(&cfg.Upload)
	if err != nil {
		return err
	}
	avatars := upload.NewAvatarGenerator(cfg.Avatar.BaseURL)

	userRepo := user.NewRepository(db)
	userSvc := user.NewService(userRepo, uploader, avatars, logger)
	userHandler := user.NewHandler(userSvc, cfg.Upload)

	authSvc := auth.NewService(userSvc, jwtManager, redis.Client, logger)
	authHandler := auth.NewHandler(authSvc, cfg.JWT, cfg.Upload, logger)

	catalogRepo := catalog.NewRepository(db)
	catalogSvc := catalog.NewService(catalogRepo, userSvc, uploader, cfg.Upload, logger)
	catalogHandler := catalog.NewHandler(catalogSvc, cfg.Upload)

	cartRepo := cart.NewRepository(db)
	cartSvc := cart.NewService(cartRepo, catalogSvc, logger)
	cartHandler := cart.NewHandler(cartSvc)

	healthHandler := health.NewHandler(db, redis)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	rateLimiter := middleware.NewRateLimiter(redis.Client, cfg.RateLimit, logger)

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(rateLimiter.Handler)
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	// Authenticated routes get a second, per-user limiter stage with
	// role-scaled allowances; it must run behind the authenticator so the
	// resolved identity is on the context.
	authenticator := middleware.Authenticator(authSvc, userSvc)
	authenticate := func(next http.Handler) http.Handler {
		return authenticator(rateLimiter.Authenticated(next))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			authHandler.RegisterRoutes(r, authenticate)
			userHandler.RegisterRoutes(r, authenticate)
		})

		r.Mount("/products", catalogHandler.Routes(authenticate, middleware.RequireSeller))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Mount("/cart", cartHandler.Routes())
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("mongodb close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
