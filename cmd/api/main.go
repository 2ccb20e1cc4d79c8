// Package main is the entrypoint for the license plate API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tiw25999/license-plate-system/internal/activity"
	"github.com/tiw25999/license-plate-system/internal/auth"
	"github.com/tiw25999/license-plate-system/internal/cache"
	"github.com/tiw25999/license-plate-system/internal/config"
	"github.com/tiw25999/license-plate-system/internal/handler"
	"github.com/tiw25999/license-plate-system/internal/metrics"
	"github.com/tiw25999/license-plate-system/internal/middleware"
	"github.com/tiw25999/license-plate-system/internal/repository"
	"github.com/tiw25999/license-plate-system/internal/server"
	"github.com/tiw25999/license-plate-system/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	metricsRecorder := metrics.NewNoop()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	publisher := activity.NewPublisher(cacheClient.Client(), logger, metricsRecorder)

	plateService := service.NewPlateService(repo, cacheClient, publisher, logger, cfg.Location(), metricsRecorder)
	authService := service.NewAuthService(repo, tokens, publisher, logger, metricsRecorder)

	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	plateHandler := handler.NewPlateHandler(plateService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	r := setupRouter(healthHandler, plateHandler, authHandler, tokens, cacheClient, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Activity worker drains the audit stream into Postgres. Registered
	// before Run so it stops after the HTTP listener during shutdown.
	worker := activity.NewWorker(cacheClient.Client(), repo, logger, activity.NewConsumerID(), metricsRecorder)
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()
	go func() {
		if err := worker.Run(workerCtx); err != nil {
			logger.Error("activity worker exited", "error", err)
		}
	}()
	srv.OnShutdown("activity_worker", worker.Shutdown)

	// Hourly janitor for expired refresh sessions.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				deleted, err := repo.DeleteExpiredSessions(workerCtx)
				if err != nil {
					logger.Error("session cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("expired sessions deleted", "count", deleted)
				}
			}
		}
	}()

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"timezone", cfg.Timezone,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	healthHandler *handler.HealthHandler,
	plateHandler *handler.PlateHandler,
	authHandler *handler.AuthHandler,
	tokens *auth.TokenIssuer,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins())))

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = cfg.IsDevelopment()
	securityCfg.MaxRequestBodySize = cfg.MaxRequestBodySize
	r.Use(middleware.Security(securityCfg))

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: tokens,
	}
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      logger,
		Cache:       cacheClient,
		Enabled:     cfg.RateLimitLoginEnabled,
		LoginPerMin: cfg.RateLimitLoginPerMin,
		LoginBurst:  cfg.RateLimitLoginBurst,
	}

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Healthz)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	r.Get("/", handler.Hello)

	// Plate endpoints require an authenticated caller
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Post("/add_plate", plateHandler.Add)
		r.Get("/get_plates", plateHandler.List)
		r.Get("/search_plates", plateHandler.Search)
		r.Get("/stats", plateHandler.Stats)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.With(middleware.RateLimitLogin(rateLimitCfg)).Post("/login", authHandler.Login)
		r.Post("/refresh_token", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Post("/logout", authHandler.Logout)
			r.Post("/change_password", authHandler.ChangePassword)
			r.Get("/users/me", authHandler.Me)

			r.With(middleware.RequireAdmin()).Get("/users", authHandler.ListUsers)
			r.With(middleware.RequireAdmin()).Put("/users/role", authHandler.UpdateRole)
			r.With(middleware.RequireAdmin()).Get("/activity_logs", authHandler.ListActivityLogs)
		})
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
