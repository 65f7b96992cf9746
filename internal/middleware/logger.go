package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"donorcrm/internal/infra"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger logs one line per request and records it in metrics under the
// matched route pattern. It must run after RequestID.
func Logger(l zerolog.Logger, metrics *infra.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			reqLogger := l.With().Str("request_id", RequestIDFromContext(r.Context())).Logger()
			next.ServeHTTP(rw, r.WithContext(reqLogger.WithContext(r.Context())))

			elapsed := time.Since(start)
			route := routePattern(r)
			metrics.ObserveHTTP(route, r.Method, strconv.Itoa(rw.status), elapsed)

			evt := reqLogger.Info()
			if rw.status >= http.StatusInternalServerError {
				evt = reqLogger.Error()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", rw.status).
				Dur("elapsed", elapsed).
				Msg("http request")
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
