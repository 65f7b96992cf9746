// Package service is the single entry point over the donor CRM record store.
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

// Options wires the facade. Charger and Publisher are optional.
type Options struct {
	Store          domain.Store
	Charger        domain.Charger
	Publisher      events.Publisher
	Metrics        *infra.Metrics
	Logger         zerolog.Logger
	PaymentTimeout time.Duration
	Clock          func() time.Time
}

// Service exposes every donor CRM operation.
type Service struct {
	store     domain.Store
	recorder  *Recorder
	payments  *Payments
	analytics *Analytics
	logger    zerolog.Logger
	now       func() time.Time
}

func New(opts Options) *Service {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	recorder := NewRecorder(opts.Store, opts.Publisher, opts.Metrics, opts.Logger, now)
	return &Service{
		store:     opts.Store,
		recorder:  recorder,
		payments:  NewPayments(opts.Charger, recorder, opts.Store, opts.Metrics, opts.Logger, opts.PaymentTimeout, now),
		analytics: NewAnalytics(opts.Store, now),
		logger:    opts.Logger,
		now:       now,
	}
}

// PaymentsEnabled reports whether a charger was configured.
func (s *Service) PaymentsEnabled() bool {
	return s.payments.charger != nil
}

type CreateCampaignInput struct {
	Name        string
	Goal        float64
	StartDate   string
	EndDate     string
	Description string
}

func (s *Service) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("campaign name is required: %w", domain.ErrInvalidArgument)
	}
	if err := domain.ValidateAmount("goal", in.Goal); err != nil {
		return nil, err
	}
	start, err := parseDate("start date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		s.logger.Warn().
			Str("campaign", name).
			Str("start_date", in.StartDate).
			Str("end_date", in.EndDate).
			Msg("campaign ends before it starts")
	}

	c := &domain.Campaign{
		ID:          uuid.NewString(),
		Name:        name,
		Goal:        domain.FromCents(domain.ToCents(in.Goal)),
		StartDate:   start,
		EndDate:     end,
		Description: in.Description,
		Status:      domain.CampaignActive,
		CreatedAt:   s.timestamp(),
	}
	if err := s.store.Campaigns().Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("campaign", c.Name).Float64("goal", c.Goal).Msg("campaign created")
	return c, nil
}

// GetCampaign returns nil when no campaign has that name.
func (s *Service) GetCampaign(ctx context.Context, name string) (*domain.Campaign, error) {
	return absentAsNil(s.store.Campaigns().GetByName(ctx, strings.TrimSpace(name)))
}

func (s *Service) ListCampaigns(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("campaign status %q: %w", status, domain.ErrInvalidArgument)
	}
	return emptyIfNil(s.store.Campaigns().List(ctx, status))
}

// SetCampaignStatus opens or closes a campaign.
func (s *Service) SetCampaignStatus(ctx context.Context, name string, status domain.CampaignStatus) (*domain.Campaign, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("campaign status %q: %w", status, domain.ErrInvalidArgument)
	}
	var out *domain.Campaign
	err := s.store.WithTx(ctx, func(tx domain.Repositories) error {
		ok, err := tx.Campaigns().SetStatus(ctx, name, status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("campaign %q: %w", name, domain.ErrNotFound)
		}
		out, err = tx.Campaigns().GetByName(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type AddDonorInput struct {
	Name       string
	Email      string
	Phone      string
	Type       domain.DonorType
	Notes      string
	AssignedTo string
	Address    string
	TaxID      string
}

func (s *Service) AddDonor(ctx context.Context, in AddDonorInput) (*domain.Donor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("donor name is required: %w", domain.ErrInvalidArgument)
	}
	email := NormalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email %q: %w", in.Email, domain.ErrInvalidArgument)
	}
	kind := in.Type
	if kind == "" {
		kind = domain.DonorTypeIndividual
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("donor type %q: %w", in.Type, domain.ErrInvalidArgument)
	}

	now := s.timestamp()
	d := &domain.Donor{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(in.Phone),
		Type:       kind,
		Tier:       domain.TierFor(0),
		Campaigns:  []string{},
		Notes:      in.Notes,
		AssignedTo: strings.TrimSpace(in.AssignedTo),
		Address:    in.Address,
		TaxID:      strings.TrimSpace(in.TaxID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Donors().Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("donor_id", d.ID).Str("type", string(d.Type)).Msg("donor added")
	return d, nil
}

// GetDonor returns nil when the id is unknown.
func (s *Service) GetDonor(ctx context.Context, id string) (*domain.Donor, error) {
	return absentAsNil(s.store.Donors().GetByID(ctx, id))
}

// GetDonorByEmail matches case-insensitively.
func (s *Service) GetDonorByEmail(ctx context.Context, email string) (*domain.Donor, error) {
	return absentAsNil(s.store.Donors().GetByEmail(ctx, NormalizeEmail(email)))
}

func (s *Service) ListDonors(ctx context.Context, filter domain.DonorFilter) ([]domain.Donor, error) {
	if filter.Tier != "" && !filter.Tier.Valid() {
		return nil, fmt.Errorf("tier %q: %w", filter.Tier, domain.ErrInvalidArgument)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("donor type %q: %w", filter.Type, domain.ErrInvalidArgument)
	}
	return emptyIfNil(s.store.Donors().List(ctx, filter))
}

func (s *Service) RecordDonation(ctx context.Context, in RecordDonationInput) (*domain.Donation, error) {
	return s.recorder.Record(ctx, in)
}

func (s *Service) ChargeAndRecordPayment(ctx context.Context, in ChargeInput) (*domain.Donation, error) {
	return s.payments.ChargeAndRecord(ctx, in)
}

// GetDonation returns nil when the id is unknown.
func (s *Service) GetDonation(ctx context.Context, id string) (*domain.Donation, error) {
	return absentAsNil(s.store.Donations().GetByID(ctx, id))
}

func (s *Service) ListDonations(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("donation type %q: %w", filter.Type, domain.ErrInvalidArgument)
	}
	return emptyIfNil(s.store.Donations().List(ctx, filter))
}

func (s *Service) AcknowledgeDonation(ctx context.Context, id string) (*domain.Donation, error) {
	return s.recorder.Acknowledge(ctx, id)
}

func (s *Service) SendReceipt(ctx context.Context, id string) (*domain.Donation, error) {
	return s.recorder.SendReceipt(ctx, id)
}

func (s *Service) LTV(ctx context.Context, donorID string) (*domain.LifetimeValue, error) {
	return s.analytics.LTV(ctx, donorID)
}

func (s *Service) MajorGifts(ctx context.Context, threshold float64) ([]domain.MajorGift, error) {
	return s.analytics.MajorGifts(ctx, threshold)
}

func (s *Service) CampaignSummary(ctx context.Context, name string) (*domain.CampaignSummary, error) {
	return s.analytics.CampaignSummary(ctx, strings.TrimSpace(name))
}

func (s *Service) RetentionReport(ctx context.Context) (*domain.RetentionReport, error) {
	return s.analytics.RetentionReport(ctx)
}

func (s *Service) TierSummary(ctx context.Context) ([]domain.TierBucket, error) {
	return s.analytics.TierSummary(ctx)
}

func (s *Service) OrphanCampaigns(ctx context.Context) ([]domain.OrphanCampaign, error) {
	return s.analytics.OrphanCampaigns(ctx)
}

// NormalizeEmail trims and lower-cases an address so lookups ignore case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q must be YYYY-MM-DD: %w", field, raw, domain.ErrInvalidArgument)
	}
	return t, nil
}

func absentAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func emptyIfNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
