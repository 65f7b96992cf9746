package domain

import (
	"context"
	"time"
)

// DonorRepository persists donors.
type DonorRepository interface {
	Create(ctx context.Context, donor *Donor) error
	GetByID(ctx context.Context, id string) (*Donor, error)
	GetByEmail(ctx context.Context, email string) (*Donor, error)
	List(ctx context.Context, filter DonorFilter) ([]Donor, error)
	// Update locks the donor row, applies mutate and writes the result back.
	// It must run inside a transaction.
	Update(ctx context.Context, id string, mutate func(*Donor) error) (*Donor, error)
}

// DonationRepository persists donations.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	List(ctx context.Context, filter DonationFilter) ([]Donation, error)
	MarkAcknowledged(ctx context.Context, id string) (bool, error)
	MarkReceiptSent(ctx context.Context, id string) (bool, error)
}

// CampaignRepository persists campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	GetByName(ctx context.Context, name string) (*Campaign, error)
	List(ctx context.Context, status CampaignStatus) ([]Campaign, error)
	SetStatus(ctx context.Context, name string, status CampaignStatus) (bool, error)
}

// AnalyticsRepository runs the read-only aggregate queries behind reports.
type AnalyticsRepository interface {
	GivingStats(ctx context.Context, donorID string) (*GivingStats, error)
	MajorGifts(ctx context.Context, thresholdCents int64) ([]MajorGift, error)
	CampaignTotals(ctx context.Context, campaign string) (*CampaignTotals, error)
	DonorsBetween(ctx context.Context, from, to time.Time) ([]string, error)
	DonorsBefore(ctx context.Context, before time.Time) ([]string, error)
	TierTotals(ctx context.Context) ([]TierBucket, error)
	OrphanCampaigns(ctx context.Context) ([]OrphanCampaign, error)
}

// Repositories groups the repositories bound to one executor.
type Repositories interface {
	Donors() DonorRepository
	Donations() DonationRepository
	Campaigns() CampaignRepository
	Analytics() AnalyticsRepository
}

// Store is the transactional record store. Repositories handed to fn share
// one transaction that commits when fn returns nil and rolls back otherwise.
type Store interface {
	Repositories
	WithTx(ctx context.Context, fn func(Repositories) error) error
	// WithReadTx runs fn against a consistent read-only snapshot.
	WithReadTx(ctx context.Context, fn func(Repositories) error) error
}
