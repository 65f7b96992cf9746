package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"donorcrm/internal/adapter/repo"
	"donorcrm/internal/domain"
	"donorcrm/internal/events"
	"donorcrm/internal/http/handlers"
	httpapi "donorcrm/internal/http/httpapi"
	"donorcrm/internal/infra"
	mw "donorcrm/internal/middleware"
	"donorcrm/internal/providers/stripe"
	"donorcrm/internal/service"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	db, dialect, err := infra.OpenDB(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	runner := infra.NewSQLRunner(db, dialect, logger)
	if dialect == infra.DialectSQLite {
		reader, err := infra.OpenSQLiteReader(cfg.DBPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open read-only database handle")
		}
		defer reader.Close()
		runner.WithReader(reader)
	}

	metrics := infra.NewMetrics()
	store := repo.NewStore(runner)

	publisher, err := newPublisher(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure event publisher")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	var charger domain.Charger
	if cfg.PaymentsEnabled() {
		charger = stripe.NewClient(stripe.Options{
			SecretKey:      cfg.StripeSecretKey,
			BaseURL:        cfg.StripeBaseURL,
			Logger:         &logger,
			RequestTimeout: cfg.PaymentTimeout,
		})
	}

	svc := service.New(service.Options{
		Store:          store,
		Charger:        charger,
		Publisher:      publisher,
		Metrics:        metrics,
		Logger:         logger,
		PaymentTimeout: cfg.PaymentTimeout,
	})

	limiter, err := newLimiter(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure rate limiter")
	}

	app := handlers.NewApp(svc, metrics, logger, db.PingContext)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:        limiter,
		LimitWindow:    time.Minute,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("driver", cfg.DBDriver).
			Str("events", cfg.EventsBackend).
			Bool("payments", cfg.PaymentsEnabled()).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newPublisher(cfg *infra.Config) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case infra.EventsRedis:
		return events.NewRedisPublisher(cfg.RedisURL, cfg.RedisEventsChannel)
	case infra.EventsKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return events.Nop{}, nil
	}
}

// newLimiter uses a Redis fixed window when REDIS_URL is set.
func newLimiter(cfg *infra.Config) (mw.Limiter, error) {
	if cfg.RateLimitPerMin <= 0 {
		return nil, nil
	}
	if cfg.RedisURL == "" {
		return mw.NewMemoryLimiter(cfg.RateLimitPerMin, time.Minute), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return mw.NewRedisLimiter(redis.NewClient(opts), cfg.RateLimitPerMin, time.Minute, "donorcrm:ratelimit:"), nil
}
