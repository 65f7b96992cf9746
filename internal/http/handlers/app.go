package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
	"donorcrm/internal/service"
)

const maxBodyBytes = 1 << 20

type App struct {
	Service *service.Service
	Metrics *infra.Metrics
	Logger  zerolog.Logger
	Ping    func(ctx context.Context) error
}

func NewApp(svc *service.Service, metrics *infra.Metrics, logger zerolog.Logger, ping func(ctx context.Context) error) *App {
	return &App{Service: svc, Metrics: metrics, Logger: logger, Ping: ping}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	ChargeID string `json:"charge_id,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// fail maps a service error onto an HTTP status and error code.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var notRecorded *service.ChargeNotRecordedError
	switch {
	case errors.As(err, &notRecorded):
		zerolog.Ctx(r.Context()).Error().Err(err).Str("charge_id", notRecorded.ChargeID).Msg("charge not recorded")
		a.json(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
			Code:     "charge_not_recorded",
			Message:  "payment was captured but the donation could not be recorded",
			ChargeID: notRecorded.ChargeID,
		}})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicateKey):
		a.error(w, http.StatusConflict, "duplicate_key", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		a.error(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, domain.ErrPaymentFailed):
		a.error(w, http.StatusPaymentRequired, "payment_failed", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		a.error(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid payload"
		if !errors.Is(err, io.EOF) {
			msg = fmt.Sprintf("invalid payload: %v", err)
		}
		a.error(w, http.StatusBadRequest, "bad_request", msg)
		return false
	}
	return true
}
