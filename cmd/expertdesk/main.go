package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/config"
	dbRedis "github.com/kailas-cloud/expertdesk/internal/db/redis"
	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/domain/taxonomy"
	logpkg "github.com/kailas-cloud/expertdesk/internal/logger"
	"github.com/kailas-cloud/expertdesk/internal/metrics"
	"github.com/kailas-cloud/expertdesk/internal/repository/answercache"
	budgetrepo "github.com/kailas-cloud/expertdesk/internal/repository/budget"
	"github.com/kailas-cloud/expertdesk/internal/repository/roster"
	chiTransport "github.com/kailas-cloud/expertdesk/internal/transport/chi"
	openaiAns "github.com/kailas-cloud/expertdesk/internal/transport/openai"
	answeruc "github.com/kailas-cloud/expertdesk/internal/usecase/answer"
	assistantuc "github.com/kailas-cloud/expertdesk/internal/usecase/assistant"
	healthuc "github.com/kailas-cloud/expertdesk/internal/usecase/health"
	"github.com/kailas-cloud/expertdesk/internal/usecase/ranking"
	usageuc "github.com/kailas-cloud/expertdesk/internal/usecase/usage"
	"github.com/kailas-cloud/expertdesk/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting expertdesk API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("roster", cfg.Roster.Path),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterAnswerMetrics()
	metrics.RegisterAssistantMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ranking core
	tax := taxonomy.Default()
	if cfg.Taxonomy.Path != "" {
		if tax, err = taxonomy.LoadFile(cfg.Taxonomy.Path); err != nil {
			logger.Fatal("Failed to load taxonomy", zap.String("path", cfg.Taxonomy.Path), zap.Error(err))
		}
	}
	scorer := ranking.NewScorer(tax)
	if cfg.Ranking.Trace {
		scorer = scorer.WithTracer(ranking.NewZapTracer(logger.Named("scorer")))
	}
	ranker := ranking.NewRanker(scorer)

	// Roster: a failed initial load leaves the service running with no experts.
	rosterRepo := roster.New(cfg.Roster.Path, logger).WithSizeGauge(metrics.RosterExperts)
	if n, err := rosterRepo.Reload(ctx); err != nil {
		logger.Error("Failed to load expert roster, starting empty", zap.Error(err))
	} else {
		logger.Info("Expert roster loaded", zap.Int("experts", n))
	}
	if cfg.Roster.Watch {
		startRosterWatcher(ctx, rosterRepo, time.Duration(cfg.Roster.DebounceMS)*time.Millisecond, logger)
	}

	// Optional key-value store for answer cache and budget counters
	var store *dbRedis.Store
	if cfg.Cache.Enabled {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	base := openaiAns.NewAnswerer(&openaiAns.Config{
		APIKey:  cfg.Answer.APIKey,
		BaseURL: cfg.Answer.BaseURL,
		Settings: domain.AnswerConfig{
			Model:       cfg.Answer.Model,
			MaxTokens:   cfg.Answer.MaxTokens,
			Temperature: cfg.Answer.Temperature,
		},
		Provider: cfg.Answer.Provider,
		Logger:   logger,
	})
	if cfg.Answer.APIKey == "" {
		logger.Warn("answer.api_key is empty, every answer will be the fallback text")
	}
	budget := buildBudget(ctx, cfg, store, logger)
	answers := buildAnswerer(cfg, base, store, budget, logger)
	logger.Info("Answer generator created",
		zap.String("provider", cfg.Answer.Provider),
		zap.String("model", base.Model()),
	)

	assistantSvc := assistantuc.New(rosterRepo, answers, ranker)

	// Pass nil interface (not typed nil pointer!) when the cache is not configured.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(rosterRepo, cachePinger, base)
	usageSvc := usageuc.New(budget)

	server := chiTransport.NewServer(assistantSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(chiTransport.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:         cfg.CORS.MaxAgeSec,
	}))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildBudget creates the token budget tracker. It always tracks usage;
// zero limits mean it never blocks.
func buildBudget(
	ctx context.Context,
	cfg config.Config,
	store *dbRedis.Store,
	logger *zap.Logger,
) *answeruc.BudgetTracker {
	budgetCfg := cfg.Answer.Budget
	action := answeruc.BudgetActionWarn
	if budgetCfg.Action == "reject" {
		action = answeruc.BudgetActionReject
	}
	budget := answeruc.NewBudgetTracker(
		cfg.Answer.Provider, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
	)
	if store != nil {
		// Connect persistence store: loads current counters from the cache.
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}
	return budget
}

// buildAnswerer assembles the decorator chain: OpenAI -> Instrumented (budget) -> Cached -> Guard.
// Cache hits never touch the budget.
func buildAnswerer(
	cfg config.Config,
	base *openaiAns.Answerer,
	store *dbRedis.Store,
	budget *answeruc.BudgetTracker,
	logger *zap.Logger,
) *answeruc.Guard {
	var answerer domain.Answerer = answeruc.NewInstrumentedAnswerer(
		base, cfg.Answer.Provider, base.Model(), budget, logger,
	)
	if store != nil {
		answerer = answercache.New(
			answerer, store, base.Model(),
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.AnswerCacheTotal, logger,
		)
	}

	return answeruc.NewGuard(answerer, time.Duration(cfg.Answer.TimeoutSec)*time.Second, logger)
}

func startRosterWatcher(ctx context.Context, repo *roster.Repo, debounce time.Duration, logger *zap.Logger) {
	w, err := roster.NewWatcher(repo, logger)
	if err != nil {
		logger.Error("Roster watcher disabled", zap.Error(err))
		return
	}
	w.WithDebounce(debounce)

	go func() {
		defer func() { _ = w.Close() }()
		if err := w.Run(ctx); err != nil {
			logger.Error("Roster watcher stopped", zap.Error(err))
		}
	}()
	logger.Info("Watching roster source for changes", zap.String("path", repo.Path()))
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
