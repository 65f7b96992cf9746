package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DBDriver           string
	DBPath             string
	DatabaseURL        string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
	RedisURL           string
	PaymentProvider    string
	StripeBaseURL      string
	StripeSecretKey    string
	PaymentTimeout     time.Duration
	EventsBackend      string
	KafkaBrokers       []string
	KafkaTopic         string
	RedisEventsChannel string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DBDriver:           getEnv("DB_DRIVER", DriverSQLite),
		DBPath:             getEnv("DB_PATH", "donors.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		RedisURL:           os.Getenv("REDIS_URL"),
		PaymentProvider:    strings.ToLower(os.Getenv("PAYMENT_PROVIDER")),
		StripeBaseURL:      getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		PaymentTimeout:     time.Second * time.Duration(getEnvInt("PAYMENT_TIMEOUT_SECONDS", 20)),
		EventsBackend:      strings.ToLower(getEnv("EVENTS_BACKEND", EventsNone)),
		KafkaBrokers:       getEnvList("KAFKA_BROKERS"),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "donorcrm.events"),
		RedisEventsChannel: getEnv("REDIS_EVENTS_CHANNEL", "donorcrm_events"),
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("DB_PATH is required for %s", DriverSQLite)
		}
	case DriverPgx:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for %s", DriverPgx)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.PaymentProvider {
	case "", PaymentProviderStripe:
	default:
		return nil, fmt.Errorf("unsupported PAYMENT_PROVIDER %q", cfg.PaymentProvider)
	}

	switch cfg.EventsBackend {
	case EventsNone:
	case EventsRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for EVENTS_BACKEND=%s", EventsRedis)
		}
	case EventsKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required for EVENTS_BACKEND=%s", EventsKafka)
		}
	default:
		return nil, fmt.Errorf("unsupported EVENTS_BACKEND %q", cfg.EventsBackend)
	}

	return cfg, nil
}

// PaymentsEnabled reports whether a payment processor is configured.
func (c *Config) PaymentsEnabled() bool {
	return c.PaymentProvider != ""
}

const (
	PaymentProviderStripe = "stripe"

	EventsNone  = "none"
	EventsRedis = "redis"
	EventsKafka = "kafka"
)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
