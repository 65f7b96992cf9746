package handlers

import (
	"context"
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if a.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Ping(ctx); err != nil {
			a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
			return
		}
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"payments": a.Service.PaymentsEnabled(),
	})
}

// MetricsHandler exposes the Prometheus registry.
func (a *App) MetricsHandler() http.Handler {
	return a.Metrics.Handler()
}
