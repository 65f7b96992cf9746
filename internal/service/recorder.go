package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"donorcrm/internal/domain"
	"donorcrm/internal/events"
	"donorcrm/internal/infra"
)

// RecordDonationInput carries the fields of a donation to record. Zero
// Type and Method default to one-time and credit card; a nil ReceivedAt
// means now.
type RecordDonationInput struct {
	DonorID          string
	Amount           float64
	Campaign         string
	Type             domain.DonationType
	Method           domain.PaymentMethod
	Notes            string
	ReferenceNumber  string
	ReceivedAt       *time.Time
	ExternalChargeID string
}

// Recorder writes donations and keeps the owning donor's totals and tier in step.
type Recorder struct {
	store     domain.Store
	publisher events.Publisher
	metrics   *infra.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewRecorder(store domain.Store, publisher events.Publisher, metrics *infra.Metrics, logger zerolog.Logger, now func() time.Time) *Recorder {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &Recorder{store: store, publisher: publisher, metrics: metrics, logger: logger, now: now}
}

// Record inserts the donation and updates the donor in one transaction.
func (r *Recorder) Record(ctx context.Context, in RecordDonationInput) (*domain.Donation, error) {
	donation, err := r.newDonation(in)
	if err != nil {
		return nil, err
	}
	now := r.now().UTC().Truncate(time.Microsecond)

	var (
		before domain.Tier
		donor  *domain.Donor
	)
	err = r.store.WithTx(ctx, func(tx domain.Repositories) error {
		updated, err := tx.Donors().Update(ctx, donation.DonorID, func(d *domain.Donor) error {
			before = d.Tier
			return d.ApplyGift(donation.Amount, donation.Campaign, donation.ReceivedAt, now)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("donor %s: %w", donation.DonorID, domain.ErrNotFound)
			}
			return err
		}
		donor = updated
		return tx.Donations().Create(ctx, donation)
	})
	if err != nil {
		return nil, err
	}

	r.metrics.DonationRecorded(string(donation.Method), donation.Amount)
	r.logger.Info().
		Str("donation_id", donation.ID).
		Str("donor_id", donor.ID).
		Float64("amount", donation.Amount).
		Str("campaign", donation.Campaign).
		Str("tier", string(donor.Tier)).
		Msg("donation recorded")
	r.publish(ctx, donation, donor, before, now)
	return donation, nil
}

// Acknowledge marks a donation acknowledged. Unknown ids yield (nil, nil).
func (r *Recorder) Acknowledge(ctx context.Context, id string) (*domain.Donation, error) {
	return r.flag(ctx, id, domain.DonationRepository.MarkAcknowledged)
}

// SendReceipt marks the tax receipt sent, which also acknowledges the gift.
func (r *Recorder) SendReceipt(ctx context.Context, id string) (*domain.Donation, error) {
	return r.flag(ctx, id, domain.DonationRepository.MarkReceiptSent)
}

func (r *Recorder) flag(ctx context.Context, id string, mark func(domain.DonationRepository, context.Context, string) (bool, error)) (*domain.Donation, error) {
	var out *domain.Donation
	err := r.store.WithTx(ctx, func(tx domain.Repositories) error {
		ok, err := mark(tx.Donations(), ctx, id)
		if err != nil || !ok {
			return err
		}
		out, err = tx.Donations().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Recorder) newDonation(in RecordDonationInput) (*domain.Donation, error) {
	donorID := strings.TrimSpace(in.DonorID)
	if donorID == "" {
		return nil, fmt.Errorf("donor id is required: %w", domain.ErrInvalidArgument)
	}
	if err := domain.ValidateAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	kind := in.Type
	if kind == "" {
		kind = domain.DonationTypeOneTime
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("donation type %q: %w", kind, domain.ErrInvalidArgument)
	}
	method := in.Method
	if method == "" {
		method = domain.MethodCreditCard
	}
	if !method.Valid() {
		return nil, fmt.Errorf("payment method %q: %w", method, domain.ErrInvalidArgument)
	}
	receivedAt := r.now()
	if in.ReceivedAt != nil {
		receivedAt = *in.ReceivedAt
	}
	return &domain.Donation{
		ID:               uuid.NewString(),
		DonorID:          donorID,
		Amount:           domain.FromCents(domain.ToCents(in.Amount)),
		Campaign:         strings.TrimSpace(in.Campaign),
		Type:             kind,
		Method:           method,
		ReceivedAt:       receivedAt.UTC().Truncate(time.Microsecond),
		Notes:            in.Notes,
		ReferenceNumber:  in.ReferenceNumber,
		ExternalChargeID: in.ExternalChargeID,
	}, nil
}

func (r *Recorder) publish(ctx context.Context, donation *domain.Donation, donor *domain.Donor, before domain.Tier, at time.Time) {
	out := []events.Event{{
		Type:       events.TypeDonationRecorded,
		DonorID:    donor.ID,
		DonationID: donation.ID,
		Campaign:   donation.Campaign,
		Amount:     donation.Amount,
		Method:     string(donation.Method),
		TotalGiven: donor.TotalGiven,
		Tier:       string(donor.Tier),
		OccurredAt: at,
	}}
	if before != donor.Tier {
		out = append(out, events.Event{
			Type:       events.TypeTierChanged,
			DonorID:    donor.ID,
			TotalGiven: donor.TotalGiven,
			Tier:       string(donor.Tier),
			PrevTier:   string(before),
			OccurredAt: at,
		})
	}
	for _, ev := range out {
		if err := r.publisher.Publish(ctx, ev); err != nil {
			r.metrics.EventPublishFailed()
			r.logger.Warn().Err(err).
				Str("event", ev.Type).
				Str("donor_id", ev.DonorID).
				Msg("event publish failed")
		}
	}
}
