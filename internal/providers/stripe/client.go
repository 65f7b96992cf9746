package stripe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
)

// ErrMissingCredential indicates that neither the request nor the client carries a secret key.
var ErrMissingCredential = errors.New("stripe: credential is required")

// Options configures the charge client.
type Options struct {
	SecretKey      string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client creates charges through the Stripe SDK. BaseURL may point at any
// Stripe-compatible API.
type Client struct {
	secretKey string
	backends  *stripego.Backends
	logger    *infra.Logger
}

// NewClient constructs a client with defaults for anything left unset.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = stripego.APIURL
	}
	logger := opts.Logger
	if logger == nil {
		l := zerolog.New(io.Discard)
		logger = &l
	}

	// Charges are never retried here; the caller owns the idempotency key.
	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(baseURL),
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripego.Int64(0),
		EnableTelemetry:   stripego.Bool(false),
		LeveledLogger:     leveledLogger{l: logger},
	})
	return &Client{
		secretKey: strings.TrimSpace(opts.SecretKey),
		backends:  &stripego.Backends{API: backend, Connect: backend, Uploads: backend},
		logger:    logger,
	}
}

// Charge creates a charge and returns it only when the processor reports it
// succeeded. Card errors and non-succeeded charges wrap domain.ErrChargeDeclined.
func (c *Client) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		credential = c.secretKey
	}
	if credential == "" {
		return nil, ErrMissingCredential
	}
	if req.AmountMinor <= 0 {
		return nil, errors.New("stripe: amount must be positive")
	}
	token := strings.TrimSpace(req.MethodToken)
	if token == "" {
		return nil, errors.New("stripe: payment method token is required")
	}

	params := &stripego.ChargeParams{
		Amount:   stripego.Int64(req.AmountMinor),
		Currency: stripego.String(strings.ToLower(req.Currency)),
		Source:   &stripego.PaymentSourceSourceParams{Token: stripego.String(token)},
	}
	if req.Description != "" {
		params.Description = stripego.String(req.Description)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.Context = ctx

	sc := client.New(credential, c.backends)
	ch, err := sc.Charges.New(params)
	if err != nil {
		return nil, translateError(err)
	}
	if ch.ID == "" {
		return nil, errors.New("stripe: empty charge id")
	}
	if ch.Status != stripego.ChargeStatusSucceeded {
		if ch.FailureMessage != "" {
			return nil, fmt.Errorf("stripe: charge %s %s: %s: %w", ch.ID, ch.Status, ch.FailureMessage, domain.ErrChargeDeclined)
		}
		return nil, fmt.Errorf("stripe: charge %s status %q: %w", ch.ID, ch.Status, domain.ErrChargeDeclined)
	}

	c.logger.Debug().
		Str("charge_id", ch.ID).
		Int64("amount", ch.Amount).
		Str("currency", string(ch.Currency)).
		Msg("stripe: charge succeeded")
	return &domain.ChargeResult{
		ChargeID:    ch.ID,
		AmountMinor: ch.Amount,
		Currency:    strings.ToUpper(string(ch.Currency)),
		Status:      string(ch.Status),
	}, nil
}

func translateError(err error) error {
	var apiErr *stripego.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("stripe: %w", err)
	}
	code := string(apiErr.DeclineCode)
	if code == "" {
		code = string(apiErr.Code)
	}
	if apiErr.Type == stripego.ErrorTypeCard {
		return fmt.Errorf("stripe: %s (%s): %w", apiErr.Msg, code, domain.ErrChargeDeclined)
	}
	return fmt.Errorf("stripe: status %d: %s (%s)", apiErr.HTTPStatusCode, apiErr.Msg, code)
}

// leveledLogger routes SDK logs into zerolog.
type leveledLogger struct {
	l *infra.Logger
}

func (z leveledLogger) Debugf(format string, v ...interface{}) { z.l.Debug().Msgf(format, v...) }
func (z leveledLogger) Infof(format string, v ...interface{})  { z.l.Info().Msgf(format, v...) }
func (z leveledLogger) Warnf(format string, v ...interface{})  { z.l.Warn().Msgf(format, v...) }
func (z leveledLogger) Errorf(format string, v ...interface{}) { z.l.Error().Msgf(format, v...) }

var _ domain.Charger = (*Client)(nil)
