package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	count int
	until time.Time
}

// MemoryLimiter is a fixed-window counter kept in process memory.
type MemoryLimiter struct {
	limit int
	per   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewMemoryLimiter(limit int, per time.Duration) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, per: per, now: time.Now, buckets: make(map[string]*bucket)}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b, ok := m.buckets[key]
	if !ok || now.After(b.until) {
		b = &bucket{count: 0, until: now.Add(m.per)}
		m.buckets[key] = b
	}
	if b.count >= m.limit {
		return false, nil
	}
	b.count++
	return true, nil
}

// RedisLimiter is a fixed-window counter shared through Redis.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	per    time.Duration
	prefix string
}

func NewRedisLimiter(rdb *redis.Client, limit int, per time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, per: per, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.per).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.limit), nil
}

// RateLimit rejects callers over the limiter's budget with 429. Limiter
// errors let the request through.
func RateLimit(limiter Limiter, retryAfter time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPForRateLimit(r)
			ok, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Warn().Err(err).Str("client_ip", ip).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"code": "rate_limited", "message": "too many requests"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
