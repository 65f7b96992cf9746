package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"donorcrm/internal/adapter/repo"
	"donorcrm/internal/domain"
	"donorcrm/internal/http/handlers"
	"donorcrm/internal/infra"
	mw "donorcrm/internal/middleware"
	"donorcrm/internal/service"
)

type declineCharger struct{}

func (declineCharger) Charge(context.Context, domain.ChargeRequest) (*domain.ChargeResult, error) {
	return nil, errors.New("card declined")
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, charger domain.Charger, limiter mw.Limiter) testServer {
	t.Helper()
	db, err := infra.OpenSQLite(filepath.Join(t.TempDir(), "donors.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := infra.ApplySchema(context.Background(), db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	logger := zerolog.Nop()
	metrics := infra.NewMetrics()
	store := repo.NewStore(infra.NewSQLRunner(db, infra.DialectSQLite, logger))
	svc := service.New(service.Options{
		Store:   store,
		Charger: charger,
		Metrics: metrics,
		Logger:  logger,
		Clock:   func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) },
	})
	app := handlers.NewApp(svc, metrics, logger, db.PingContext)
	srv := httptest.NewServer(NewRouter(app, RouterOptions{Logger: logger, Limiter: limiter, LimitWindow: time.Minute}))
	t.Cleanup(srv.Close)
	return testServer{Server: srv}
}

func (s testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	detail, _ := body["error"].(map[string]any)
	code, _ := detail["code"].(string)
	return code
}

func TestFallDriveOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	status, _ := srv.do(t, http.MethodPost, "/v1/campaigns", map[string]any{
		"name": "Fall Drive", "goal": 10000, "start_date": "2025-01-01", "end_date": "2025-12-31",
	})
	if status != http.StatusCreated {
		t.Fatalf("create campaign status = %d", status)
	}
	status, body := srv.do(t, http.MethodPost, "/v1/campaigns", map[string]any{
		"name": "Fall Drive", "goal": 10000, "start_date": "2025-01-01", "end_date": "2025-12-31",
	})
	if status != http.StatusConflict || errorCode(body) != "duplicate_key" {
		t.Fatalf("duplicate campaign = %d %v", status, body)
	}

	status, donor := srv.do(t, http.MethodPost, "/v1/donors", map[string]any{"name": "Alice", "email": "alice@x.com"})
	if status != http.StatusCreated {
		t.Fatalf("create donor status = %d %v", status, donor)
	}
	donorID, _ := donor["id"].(string)

	for _, amount := range []float64{6000, 5000} {
		status, body := srv.do(t, http.MethodPost, "/v1/donations", map[string]any{
			"donor_id": donorID, "amount": amount, "campaign": "Fall Drive", "method": "check",
		})
		if status != http.StatusCreated {
			t.Fatalf("record donation status = %d %v", status, body)
		}
	}

	status, got := srv.do(t, http.MethodGet, "/v1/donors/"+donorID, nil)
	if status != http.StatusOK || got["tier"] != "gold" || got["total_given"] != float64(11000) {
		t.Fatalf("donor = %d %v", status, got)
	}

	status, summary := srv.do(t, http.MethodGet, "/v1/campaigns/Fall%20Drive/summary", nil)
	if status != http.StatusOK {
		t.Fatalf("summary status = %d %v", status, summary)
	}
	if summary["progress_pct"] != float64(110) || summary["average_gift"] != float64(5500) || summary["largest_gift"] != float64(6000) {
		t.Fatalf("summary = %v", summary)
	}

	status, gifts := srv.do(t, http.MethodGet, "/v1/reports/major-gifts", nil)
	items, _ := gifts["items"].([]any)
	if status != http.StatusOK || len(items) != 1 {
		t.Fatalf("major gifts = %d %v", status, gifts)
	}

	status, everyone := srv.do(t, http.MethodGet, "/v1/reports/major-gifts?threshold=-1", nil)
	items, _ = everyone["items"].([]any)
	if status != http.StatusOK || len(items) != 1 {
		t.Fatalf("major gifts with negative threshold = %d %v", status, everyone)
	}

	status, tiers := srv.do(t, http.MethodGet, "/v1/reports/tiers", nil)
	items, _ = tiers["items"].([]any)
	if status != http.StatusOK || len(items) != 4 {
		t.Fatalf("tiers = %d %v", status, tiers)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	status, donor := srv.do(t, http.MethodPost, "/v1/donors", map[string]any{"name": "Alice", "email": "alice@x.com"})
	if status != http.StatusCreated {
		t.Fatalf("create donor status = %d", status)
	}
	donorID, _ := donor["id"].(string)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing donor", http.MethodGet, "/v1/donors/ghost", nil, http.StatusNotFound, "not_found"},
		{"missing donation", http.MethodPost, "/v1/donations/ghost/receipt", nil, http.StatusNotFound, "not_found"},
		{"missing campaign summary", http.MethodGet, "/v1/campaigns/ghost/summary", nil, http.StatusNotFound, "not_found"},
		{"ltv unknown donor", http.MethodGet, "/v1/donors/ghost/ltv", nil, http.StatusNotFound, "not_found"},
		{"zero amount", http.MethodPost, "/v1/donations", map[string]any{"donor_id": donorID, "amount": 0}, http.StatusBadRequest, "invalid_argument"},
		{"oversized amount", http.MethodPost, "/v1/donations", map[string]any{"donor_id": donorID, "amount": 1e17}, http.StatusBadRequest, "invalid_argument"},
		{"unknown field", http.MethodPost, "/v1/donors", map[string]any{"name": "B", "email": "b@x.com", "tier": "gold"}, http.StatusBadRequest, "bad_request"},
		{"bad threshold", http.MethodGet, "/v1/reports/major-gifts?threshold=lots", nil, http.StatusBadRequest, "bad_request"},
		{"payments unavailable", http.MethodPost, "/v1/payments/charges", map[string]any{"donor_id": donorID, "amount_minor": 500, "payment_method_token": "tok"}, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := srv.do(t, tc.method, tc.path, tc.body)
			if status != tc.status || errorCode(body) != tc.code {
				t.Fatalf("%s %s = %d %v, want %d %s", tc.method, tc.path, status, body, tc.status, tc.code)
			}
		})
	}
}

func TestPaymentDeclinedIsPaymentRequired(t *testing.T) {
	srv := newTestServer(t, declineCharger{}, nil)
	_, donor := srv.do(t, http.MethodPost, "/v1/donors", map[string]any{"name": "Alice", "email": "alice@x.com"})
	donorID, _ := donor["id"].(string)

	status, body := srv.do(t, http.MethodPost, "/v1/payments/charges", map[string]any{
		"donor_id": donorID, "amount_minor": 500, "payment_method_token": "tok_chargeDeclined",
	})
	if status != http.StatusPaymentRequired || errorCode(body) != "payment_failed" {
		t.Fatalf("charge = %d %v", status, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	status, body := srv.do(t, http.MethodGet, "/v1/healthz", nil)
	if status != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz = %d %v", status, body)
	}

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "donorcrm_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	srv := newTestServer(t, nil, mw.NewMemoryLimiter(1, time.Minute))
	if status, _ := srv.do(t, http.MethodGet, "/v1/donors", nil); status != http.StatusOK {
		t.Fatalf("first request status = %d", status)
	}
	status, body := srv.do(t, http.MethodGet, "/v1/donors", nil)
	if status != http.StatusTooManyRequests || errorCode(body) != "rate_limited" {
		t.Fatalf("second request = %d %v", status, body)
	}
	if status, _ := srv.do(t, http.MethodGet, "/v1/healthz", nil); status != http.StatusOK {
		t.Fatalf("health check should not be limited, got %d", status)
	}
}
