package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
)

const defaultCurrency = "USD"

// ChargeInput describes a processor payment to capture and record.
type ChargeInput struct {
	DonorID     string
	AmountMinor int64
	Campaign    string
	MethodToken string
	Credential  string
	Type        domain.DonationType
	Notes       string
	Currency    string
}

// ChargeNotRecordedError reports a captured charge whose donation could not be written.
type ChargeNotRecordedError struct {
	ChargeID string
	Err      error
}

func (e *ChargeNotRecordedError) Error() string {
	return fmt.Sprintf("charge %s captured but not recorded: %v", e.ChargeID, e.Err)
}

func (e *ChargeNotRecordedError) Unwrap() []error {
	return []error{domain.ErrChargeNotRecorded, e.Err}
}

// Payments charges a donor through the configured processor and records the gift.
type Payments struct {
	charger  domain.Charger
	recorder *Recorder
	store    domain.Store
	metrics  *infra.Metrics
	logger   zerolog.Logger
	timeout  time.Duration
	now      func() time.Time
}

func NewPayments(charger domain.Charger, recorder *Recorder, store domain.Store, metrics *infra.Metrics, logger zerolog.Logger, timeout time.Duration, now func() time.Time) *Payments {
	if now == nil {
		now = time.Now
	}
	return &Payments{
		charger:  charger,
		recorder: recorder,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		timeout:  timeout,
		now:      now,
	}
}

// ChargeAndRecord charges first and records only a confirmed charge.
func (p *Payments) ChargeAndRecord(ctx context.Context, in ChargeInput) (*domain.Donation, error) {
	if p.charger == nil {
		return nil, fmt.Errorf("payment processor not configured: %w", domain.ErrUnavailable)
	}
	if in.AmountMinor <= 0 {
		return nil, fmt.Errorf("amount %d must be positive: %w", in.AmountMinor, domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.MethodToken) == "" {
		return nil, fmt.Errorf("payment method token is required: %w", domain.ErrInvalidArgument)
	}
	code := strings.ToUpper(strings.TrimSpace(in.Currency))
	if code == "" {
		code = defaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", in.Currency, domain.ErrInvalidArgument)
	}
	scale, _ := currency.Standard.Rounding(unit)
	if err := domain.ValidateAmount("amount", domain.FromMinorUnits(in.AmountMinor, scale)); err != nil {
		return nil, fmt.Errorf("charge of %d %s: %w", in.AmountMinor, unit, err)
	}
	if in.Type != "" && !in.Type.Valid() {
		return nil, fmt.Errorf("donation type %q: %w", in.Type, domain.ErrInvalidArgument)
	}
	if _, err := p.store.Donors().GetByID(ctx, in.DonorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("donor %s: %w", in.DonorID, domain.ErrNotFound)
		}
		return nil, err
	}

	chargeCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		chargeCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	key := newIdempotencyKey(p.now())
	res, err := p.charger.Charge(chargeCtx, domain.ChargeRequest{
		AmountMinor:    in.AmountMinor,
		Currency:       unit.String(),
		MethodToken:    in.MethodToken,
		Credential:     in.Credential,
		IdempotencyKey: key,
		Description:    describeCharge(in.Campaign),
	})
	if err != nil {
		result := "failed"
		if errors.Is(err, domain.ErrChargeDeclined) {
			result = "declined"
		}
		p.metrics.PaymentCharge(result)
		p.logger.Warn().Err(err).
			Str("result", result).
			Str("donor_id", in.DonorID).
			Str("idempotency_key", key).
			Msg("charge failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrPaymentFailed, err)
	}

	amountMinor := res.AmountMinor
	if amountMinor <= 0 {
		amountMinor = in.AmountMinor
	}
	donation, err := p.recorder.Record(ctx, RecordDonationInput{
		DonorID:          in.DonorID,
		Amount:           domain.FromMinorUnits(amountMinor, scale),
		Campaign:         in.Campaign,
		Type:             in.Type,
		Method:           domain.MethodStripe,
		Notes:            in.Notes,
		ExternalChargeID: res.ChargeID,
	})
	if err != nil {
		p.metrics.PaymentCharge("unrecorded")
		p.logger.Error().Err(err).
			Str("donor_id", in.DonorID).
			Str("charge_id", res.ChargeID).
			Msg("charge captured but donation not recorded")
		return nil, &ChargeNotRecordedError{ChargeID: res.ChargeID, Err: err}
	}
	p.metrics.PaymentCharge("succeeded")
	return donation, nil
}

func newIdempotencyKey(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.Monotonic(rand.Reader, 0)).String()
}

func describeCharge(campaign string) string {
	if campaign = strings.TrimSpace(campaign); campaign != "" {
		return "Donation: " + campaign
	}
	return "Donation"
}
