package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"signalist/internal/config"
	hhttp "signalist/internal/handler/http"
	pgRepo "signalist/internal/infra/adapter/persistence/postgres"
	"signalist/internal/infra/db"
	"signalist/internal/infra/mailer"
	"signalist/internal/infra/marketdata"
	"signalist/internal/infra/summarizer"
	"signalist/internal/observability/logging"
	"signalist/internal/observability/tracing"
	"signalist/internal/usecase/signup"
	env "signalist/pkg/config"
)

func main() {
	logger := initLogger()

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if env.GetEnvBool("DB_MIGRATE", false) {
		if err := db.MigrateUp(database); err != nil {
			logger.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	handler := setupHandler(logger, database)

	runServer(logger, handler)
}

// initLogger initializes the JSON logger and installs it as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupHandler wires the API routes: market data symbol search, the
// user-created welcome email flow, and health checks.
func setupHandler(logger *slog.Logger, database *sql.DB) http.Handler {
	marketConfig, err := marketdata.LoadConfig()
	if err != nil {
		logger.Error("failed to load market data configuration", slog.Any("error", err))
		os.Exit(1)
	}
	marketClient := marketdata.NewClient(marketConfig)

	userRepo := pgRepo.NewUserRepo(database)
	intro := createIntroWriter(logger)

	appConfig := loadAppConfig(logger)
	mailerConfig, err := mailer.LoadConfig()
	if err != nil {
		logger.Error("failed to load SMTP configuration", slog.Any("error", err))
		os.Exit(1)
	}
	smtpMailer, err := mailer.NewMailer(mailerConfig, appConfig)
	if err != nil {
		logger.Error("failed to create mailer", slog.Any("error", err))
		os.Exit(1)
	}

	signupSvc := signup.NewService(userRepo, intro, smtpMailer)

	router := hhttp.NewRouter(hhttp.RouterConfig{
		DB:        database,
		Market:    marketClient,
		Signup:    &signupSvc,
		Logger:    logger,
		Version:   getVersion(),
		RateLimit: getRateLimit(),
	})

	return tracing.Middleware(router)
}

// createIntroWriter selects the AI provider for welcome intros. Unlike
// the digest worker, a missing key degrades to the no-op writer so signup
// emails still go out with the default greeting.
func createIntroWriter(logger *slog.Logger) signup.IntroWriter {
	summarizerType := os.Getenv("SUMMARIZER_TYPE")
	if summarizerType == "" {
		summarizerType = "claude"
	}

	switch summarizerType {
	case "claude":
		if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
			return summarizer.NewClaude(apiKey)
		}
		logger.Warn("ANTHROPIC_API_KEY not set, welcome intros use the default greeting")
		return summarizer.NewNoOp()
	case "openai":
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			return summarizer.NewOpenAI(apiKey)
		}
		logger.Warn("OPENAI_API_KEY not set, welcome intros use the default greeting")
		return summarizer.NewNoOp()
	default:
		return summarizer.NewNoOp()
	}
}

// loadAppConfig loads the YAML application config when APP_CONFIG points
// to a file, falling back to built-in defaults.
func loadAppConfig(logger *slog.Logger) *config.AppConfig {
	path := os.Getenv("APP_CONFIG")
	if path == "" {
		logger.Info("APP_CONFIG not set, using default mail configuration")
		return config.DefaultAppConfig()
	}

	appConfig, err := config.LoadAppConfig(path)
	if err != nil {
		logger.Error("failed to load application configuration",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	return appConfig
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return env.GetEnvString("APP_VERSION", "dev")
}

// getRateLimit reads API_RATE_LIMIT (requests per IP per minute),
// defaulting to 60 on absence or an invalid value.
func getRateLimit() int {
	limit := env.GetEnvInt("API_RATE_LIMIT", 60)
	if limit < 1 {
		return 60
	}
	return limit
}

// runServer starts the HTTP server and handles graceful shutdown on
// SIGINT/SIGTERM.
func runServer(logger *slog.Logger, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":8080"
	if port := os.Getenv("API_PORT"); port != "" {
		addr = ":" + port
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
