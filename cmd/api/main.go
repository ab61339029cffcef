// Package main is the entrypoint for the Workhub API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/workhub/workhub/internal/access"
	"github.com/workhub/workhub/internal/auth"
	"github.com/workhub/workhub/internal/cache"
	"github.com/workhub/workhub/internal/config"
	"github.com/workhub/workhub/internal/handler"
	"github.com/workhub/workhub/internal/middleware"
	"github.com/workhub/workhub/internal/model"
	"github.com/workhub/workhub/internal/repository"
	"github.com/workhub/workhub/internal/server"
	"github.com/workhub/workhub/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Decode token signing keys
	privateKey, publicKey, err := cfg.SigningKeys()
	if err != nil {
		logger.Error("failed to load signing keys", "error", err)
		os.Exit(1)
	}

	// Initialize database
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

	// Initialize cache
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

	// Initialize services
	tokens := auth.NewTokenIssuer(privateKey, publicKey, cfg.TokenTTL)
	authService := service.NewAuthService(repo, tokens)
	workspaceService := service.NewWorkspaceService(repo, cacheClient)
	resolver := access.NewResolver(repo, cacheClient)

	// Initialize handlers
	base := handler.New(cfg.IsProduction())
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(base, authService, logger)
	workspaceHandler := handler.NewWorkspaceHandler(base, workspaceService, logger)

	// Setup router
	r := setupRouter(base, healthHandler, authHandler, workspaceHandler, tokens, resolver, logger, cfg.MaxRequestBodySize)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
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
// Each protected workspace route declares the exact role set it accepts.
func setupRouter(
	base *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	workspaceHandler *handler.WorkspaceHandler,
	tokens *auth.TokenIssuer,
	resolver *access.Resolver,
	logger *slog.Logger,
	maxBodySize int64,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.MaxBodySize(maxBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: tokens,
	}

	rbacCfg := middleware.RBACConfig{
		Logger:   logger,
		Resolver: resolver,
	}

	// Authentication (no token required for signup/signin)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.With(middleware.Auth(authCfg)).Get("/profile", authHandler.Profile)
	})

	// Workspaces (authenticated; per-route role sets)
	r.Route("/workspaces", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Post("/", workspaceHandler.Create)
		r.Get("/", workspaceHandler.List)

		r.Route("/{id}", func(r chi.Router) {
			anyRole := middleware.RequireRoles(rbacCfg, model.RoleOwner, model.RoleAdmin, model.RoleMember)
			editRoles := middleware.RequireRoles(rbacCfg, model.RoleOwner, model.RoleAdmin)
			ownerOnly := middleware.RequireRoles(rbacCfg, model.RoleOwner)

			r.With(anyRole).Get("/", workspaceHandler.Get)
			r.With(editRoles).Patch("/", workspaceHandler.Update)
			r.With(ownerOnly).Delete("/", workspaceHandler.Delete)

			r.Route("/members", func(r chi.Router) {
				r.With(anyRole).Get("/", workspaceHandler.ListMembers)
				r.With(editRoles).Post("/", workspaceHandler.AddMember)
				r.With(ownerOnly).Delete("/{userID}", workspaceHandler.RemoveMember)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(base.NotFound)
	r.MethodNotAllowed(base.MethodNotAllowed)

	return r
}

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

	return msg
}
