package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"signalist/internal/handler/http/requestid"
)

// RouterConfig carries the dependencies and knobs for the API router.
type RouterConfig struct {
	DB      *sql.DB
	Market  StockSearcher
	Signup  SignupService
	Logger  *slog.Logger
	Version string

	// RateLimit is the allowed requests per client IP per minute.
	// Default: 60
	RateLimit int

	// MaxBodyBytes caps request body size. Default: 64KB
	MaxBodyBytes int64
}

// NewRouter builds the API handler with all middleware applied:
// request ID, panic recovery, logging, metrics, body limiting, and
// IP rate limiting.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 60
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 * 1024
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/health", &HealthHandler{DB: cfg.DB, Version: cfg.Version})
	mux.Handle("/api/stocks/search", &SearchHandler{Market: cfg.Market})
	mux.Handle("/api/events/user-created", NewEventsHandler(cfg.Signup, cfg.Logger))
	mux.Handle("/metrics", MetricsHandler())

	limiter := NewRateLimiter(cfg.RateLimit, time.Minute)

	var handler http.Handler = mux
	handler = limiter.Limit(handler)
	handler = LimitRequestBody(cfg.MaxBodyBytes)(handler)
	handler = Metrics(handler)
	handler = Logging(cfg.Logger)(handler)
	handler = Recover(cfg.Logger)(handler)
	handler = requestid.Middleware(handler)

	return handler
}
