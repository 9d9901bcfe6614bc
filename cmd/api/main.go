// Package main is the entrypoint for the Cuistot API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cuistot/cuistot/internal/cache"
	"github.com/cuistot/cuistot/internal/config"
	"github.com/cuistot/cuistot/internal/gemini"
	"github.com/cuistot/cuistot/internal/handler"
	"github.com/cuistot/cuistot/internal/metrics"
	"github.com/cuistot/cuistot/internal/middleware"
	"github.com/cuistot/cuistot/internal/repository"
	"github.com/cuistot/cuistot/internal/server"
	"github.com/cuistot/cuistot/internal/service"
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

	// Initialize session store
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

	// Gemini client; each call is made with the end user's own key
	geminiClient := gemini.New(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiTimeout, logger)

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, repo, cacheClient, cfg.SessionTTL, metricsRecorder, logger)
	generatorService := service.NewGeneratorService(repo, geminiClient, metricsRecorder, logger)
	recipeService := service.NewRecipeService(repo, metricsRecorder)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	authHandler := handler.NewAuthHandler(accountService, logger)
	settingsHandler := handler.NewSettingsHandler(accountService, logger)
	generateHandler := handler.NewGenerateHandler(generatorService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, logger)

	// Setup router
	r := setupRouter(healthHandler, metricsHandler, authHandler, settingsHandler, generateHandler, recipeHandler, accountService, cfg, logger)

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
		"model", cfg.GeminiModel,
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

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
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
	metricsHandler *handler.MetricsHandler,
	authHandler *handler.AuthHandler,
	settingsHandler *handler.SettingsHandler,
	generateHandler *handler.GenerateHandler,
	recipeHandler *handler.RecipeHandler,
	accounts middleware.Authenticator,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.GetCORSAllowedOrigins(),
		AllowedMethods:   middleware.DefaultCORSConfig().AllowedMethods,
		AllowedHeaders:   middleware.DefaultCORSConfig().AllowedHeaders,
		ExposedHeaders:   middleware.DefaultCORSConfig().ExposedHeaders,
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Accounts: accounts,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Account endpoints (no session required)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Everything else requires a live session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Post("/generate", generateHandler.Generate)

			r.Route("/settings/api-key", func(r chi.Router) {
				r.Put("/", settingsHandler.PutAPIKey)
				r.Get("/", settingsHandler.GetAPIKey)
				r.Delete("/", settingsHandler.DeleteAPIKey)
			})

			r.Route("/recipes", func(r chi.Router) {
				r.Post("/", recipeHandler.Save)
				r.Get("/", recipeHandler.List)
				r.Get("/{id}", recipeHandler.Get)
				r.Delete("/{id}", recipeHandler.Delete)
			})
		})
	})

	// 404 and 405 handlers
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
