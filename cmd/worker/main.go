package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"signalist/internal/config"
	"signalist/internal/handler/http/respond"
	pgRepo "signalist/internal/infra/adapter/persistence/postgres"
	"signalist/internal/infra/db"
	"signalist/internal/infra/fetcher"
	"signalist/internal/infra/mailer"
	"signalist/internal/infra/marketdata"
	"signalist/internal/infra/summarizer"
	workerPkg "signalist/internal/infra/worker"
	"signalist/internal/observability/logging"
	obsmetrics "signalist/internal/observability/metrics"
	"signalist/internal/usecase/digest"
	"signalist/internal/usecase/news"
	"signalist/internal/usecase/watchlist"
	env "signalist/pkg/config"
)

// waitForMigrations blocks until the users table exists so the worker
// does not race the migration job at deploy time.
func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM users LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	digestMetrics := workerPkg.NewDigestMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, digestMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("dispatch_max_concurrent", workerConfig.DispatchMaxConcurrent),
		slog.Duration("digest_timeout", workerConfig.DigestTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)
	go reportDBStats(ctx, database)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	svc := setupDigestService(logger, database, workerConfig)

	startCronWorker(logger, svc, workerConfig, digestMetrics, healthServer)
}

// initLogger initializes the JSON logger and installs it as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the connection pool and waits for migrations. When
// DB_MIGRATE=true the worker applies migrations itself instead.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()

	if env.GetEnvBool("DB_MIGRATE", false) {
		if err := db.MigrateUp(database); err != nil {
			logger.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
		return database
	}

	waitForMigrations(logger, database)
	return database
}

// reportDBStats exports connection pool gauges every 30 seconds.
func reportDBStats(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := database.Stats()
			obsmetrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}

// setupDigestService wires the full digest pipeline: Postgres roster and
// watchlists, the market data client, optional content enrichment, the AI
// summarizer, and the SMTP mailer.
func setupDigestService(logger *slog.Logger, database *sql.DB, workerConfig *workerPkg.WorkerConfig) *digest.Service {
	userRepo := pgRepo.NewUserRepo(database)
	watchlistRepo := pgRepo.NewWatchlistRepo(database)

	marketConfig, err := marketdata.LoadConfig()
	if err != nil {
		logger.Error("failed to load market data configuration", slog.Any("error", err))
		os.Exit(1)
	}
	marketClient := marketdata.NewClient(marketConfig)

	newsSvc := news.NewService(marketClient)
	configureEnrichment(logger, &newsSvc)

	watchlistSvc := watchlist.NewService(userRepo, watchlistRepo)

	sum := createSummarizer(logger)

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

	svc := digest.NewService(
		userRepo,
		&watchlistSvc,
		&newsSvc,
		sum,
		smtpMailer,
		digest.Config{DispatchMaxConcurrent: workerConfig.DispatchMaxConcurrent},
	)

	return &svc
}

// configureEnrichment enables readability-based summary backfill on the
// news service when CONTENT_FETCH_ENABLED is set.
func configureEnrichment(logger *slog.Logger, newsSvc *news.Service) {
	contentFetchConfig, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load content fetch configuration", slog.Any("error", err))
		logger.Warn("content enrichment disabled due to configuration error")
		return
	}

	if !contentFetchConfig.Enabled {
		logger.Info("content enrichment disabled")
		return
	}

	newsSvc.Content = fetcher.NewReadabilityFetcher(contentFetchConfig)
	newsSvc.EnrichThreshold = contentFetchConfig.Threshold
	newsSvc.EnrichParallelism = contentFetchConfig.Parallelism
	logger.Info("content enrichment enabled",
		slog.Int("threshold", contentFetchConfig.Threshold),
		slog.Int("parallelism", contentFetchConfig.Parallelism),
		slog.Duration("timeout", contentFetchConfig.Timeout))
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

// createSummarizer selects the AI provider from SUMMARIZER_TYPE. The
// matching API key is required and its absence aborts startup.
func createSummarizer(logger *slog.Logger) digest.Summarizer {
	summarizerType := os.Getenv("SUMMARIZER_TYPE")
	if summarizerType == "" {
		summarizerType = "claude"
	}

	switch summarizerType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUMMARIZER_TYPE=claude")
			os.Exit(1)
		}
		logger.Info("Using Claude API for summarization", slog.String("type", "claude"))
		return summarizer.NewClaude(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai")
			os.Exit(1)
		}
		logger.Info("Using OpenAI API for summarization", slog.String("type", "openai"))
		return summarizer.NewOpenAI(apiKey)
	case "noop":
		logger.Warn("Using no-op summarizer, digests will contain raw news payloads")
		return summarizer.NewNoOp()
	default:
		logger.Error("Invalid SUMMARIZER_TYPE",
			slog.String("type", summarizerType),
			slog.String("expected", "claude, openai, or noop"))
		os.Exit(1)
		return nil
	}
}

// startCronWorker schedules the daily digest job and blocks forever.
func startCronWorker(logger *slog.Logger, svc *digest.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.DigestMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runDigestJob(logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runDigestJob executes one digest run with timeout, metrics, and
// sanitized error logging.
func runDigestJob(logger *slog.Logger, svc *digest.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.DigestMetrics) {
	startTime := time.Now()
	logger.Info("digest run started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DigestTimeout)
	defer cancel()

	result, err := svc.RunDaily(ctx)
	duration := time.Since(startTime)

	if err != nil || result == nil {
		logger.Error("digest run failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(duration.Seconds())
		obsmetrics.RecordDigestRun(false, duration)
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(duration.Seconds())
	metrics.RecordEmailsSent(int(result.Stats.Sent))
	metrics.RecordLastSuccess()
	obsmetrics.RecordDigestRun(result.Success, duration)

	logger.Info("digest run completed",
		slog.Bool("success", result.Success),
		slog.String("message", result.Message),
		slog.Int("users", result.Stats.Users),
		slog.Int("summaries", result.Stats.Summaries),
		slog.Int("null_summaries", result.Stats.NullSummaries),
		slog.Int("skipped", result.Stats.Skipped),
		slog.Int64("sent", result.Stats.Sent),
		slog.Duration("duration", result.Stats.Duration),
	)
}
