package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/saludtotal/agendabot/internal/ai"
	"github.com/saludtotal/agendabot/internal/api/router"
	"github.com/saludtotal/agendabot/internal/booking"
	"github.com/saludtotal/agendabot/internal/bookings"
	"github.com/saludtotal/agendabot/internal/calendar"
	appconfig "github.com/saludtotal/agendabot/internal/config"
	"github.com/saludtotal/agendabot/internal/dialogue"
	"github.com/saludtotal/agendabot/internal/http/handlers"
	"github.com/saludtotal/agendabot/internal/messaging/metaclient"
	"github.com/saludtotal/agendabot/internal/observability/metrics"
	"github.com/saludtotal/agendabot/internal/schedule"
	"github.com/saludtotal/agendabot/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agendabot",
		"env", cfg.Env,
		"port", cfg.Port,
		"flow_variant", cfg.FlowVariant,
	)

	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Error("invalid clinic timezone", "timezone", cfg.ClinicTimezone, "error", err)
		os.Exit(1)
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	store := dialogue.NewSessionStore(redisClient, cfg.SessionTTL)

	calClient, err := calendar.NewGoogleClient(ctx, cfg.GoogleCredentialsJSON, cfg.GoogleCalendarID)
	if err != nil {
		logger.Error("failed to init google calendar client", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	botMetrics := metrics.NewBotMetrics(registry)

	resolver := schedule.NewResolver(calClient, schedule.DefaultWorkingHours(), loc, logger)
	writer := booking.NewWriter(calClient, loc, cfg.AppointmentDuration, logger)

	var bookingLog dialogue.BookingLog
	var adminBookings *bookings.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo := bookings.NewRepository(pool)
		bookingLog = repo
		adminBookings = repo
	} else {
		logger.Warn("DATABASE_URL not set; booking log disabled")
	}

	var strategy dialogue.Strategy
	var seller dialogue.SellerResponder
	if cfg.FlowVariant == appconfig.FlowAI {
		llm := buildLLM(ctx, cfg, logger)
		strategy = dialogue.NewAIFlow(llm, writer, bookingLog, loc, logger, botMetrics)
		seller = dialogue.NewSeller(llm, loc, logger, botMetrics)
	} else {
		strategy = dialogue.NewMenuFlow(resolver, writer, bookingLog, loc, logger, botMetrics)
	}
	engine := dialogue.NewEngine(store, strategy, seller, logger, botMetrics)

	meta, err := metaclient.New(metaclient.Config{
		Token:      cfg.MetaJWTToken,
		NumberID:   cfg.MetaNumberID,
		APIVersion: cfg.MetaAPIVersion,
		AppSecret:  cfg.MetaAppSecret,
		MaxRetries: 2,
		Logger:     logger.Logger,
	})
	if err != nil {
		logger.Error("failed to init meta client", "error", err)
		os.Exit(1)
	}

	webhookCfg := handlers.WebhookConfig{
		Engine:      engine,
		Sender:      meta,
		VerifyToken: cfg.VerifyToken,
		Logger:      logger,
		Metrics:     botMetrics,
	}
	if cfg.MetaAppSecret != "" {
		webhookCfg.Verifier = meta
	}
	webhook := handlers.NewWebhookHandler(webhookCfg)

	var flowTest *handlers.FlowTestHandler
	if cfg.Env == "development" {
		flowTest = handlers.NewFlowTestHandler(engine, logger)
	}

	admin := handlers.NewAdminHandler(store, nil, logger)
	if adminBookings != nil {
		admin = handlers.NewAdminHandler(store, adminBookings, logger)
	}

	r := router.New(&router.Config{
		Logger:          logger,
		Webhook:         webhook,
		FlowTest:        flowTest,
		Admin:           admin,
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		WebhookRate:     20,
		WebhookBurst:    40,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildLLM wires the primary model with an optional fallback provider.
func buildLLM(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) ai.Client {
	if cfg.OpenAIAPIKey == "" && cfg.GeminiAPIKey == "" {
		logger.Error("FLOW_VARIANT=ai requires OPENAI_API_KEY or GEMINI_API_KEY")
		os.Exit(1)
	}

	var primary ai.Client
	if cfg.OpenAIAPIKey != "" {
		client, err := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			logger.Error("failed to init openai client", "error", err)
			os.Exit(1)
		}
		primary = client
	}

	var fallback ai.Client
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to init gemini client", "error", err)
			os.Exit(1)
		}
		fallback = client
	}

	switch {
	case primary != nil && fallback != nil:
		return ai.NewFallbackClient(primary, fallback, logger)
	case primary != nil:
		return primary
	default:
		return fallback
	}
}
