package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"donorcrm/internal/domain"
)

// DefaultMajorGiftThreshold is the threshold used when a caller does not choose one.
const DefaultMajorGiftThreshold = 10000.0

// Analytics computes read-only reports. Each report reads one transaction snapshot.
type Analytics struct {
	store domain.Store
	now   func() time.Time
}

func NewAnalytics(store domain.Store, now func() time.Time) *Analytics {
	if now == nil {
		now = time.Now
	}
	return &Analytics{store: store, now: now}
}

// LTV returns the lifetime value of one donor.
func (a *Analytics) LTV(ctx context.Context, donorID string) (*domain.LifetimeValue, error) {
	var out *domain.LifetimeValue
	err := a.store.WithReadTx(ctx, func(tx domain.Repositories) error {
		donor, err := tx.Donors().GetByID(ctx, donorID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("donor %s: %w", donorID, domain.ErrNotFound)
			}
			return err
		}
		stats, err := tx.Analytics().GivingStats(ctx, donorID)
		if err != nil {
			return err
		}
		campaigns := donor.Campaigns
		if campaigns == nil {
			campaigns = []string{}
		}
		out = &domain.LifetimeValue{
			DonorID:       donor.ID,
			Name:          donor.Name,
			Tier:          donor.Tier,
			TotalGiven:    domain.FromCents(stats.TotalCents),
			DonationCount: int(stats.Count),
			AverageGift:   domain.AverageCents(stats.TotalCents, stats.Count),
			FirstDonation: stats.FirstDonation,
			LastDonation:  stats.LastDonation,
			Campaigns:     campaigns,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MajorGifts lists donors whose lifetime total strictly exceeds threshold.
// Any finite threshold is accepted; a negative one matches every donor.
func (a *Analytics) MajorGifts(ctx context.Context, threshold float64) ([]domain.MajorGift, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("threshold %v: %w", threshold, domain.ErrInvalidArgument)
	}
	var out []domain.MajorGift
	err := a.store.WithReadTx(ctx, func(tx domain.Repositories) error {
		var err error
		out, err = tx.Analytics().MajorGifts(ctx, domain.ThresholdCents(threshold))
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.MajorGift{}
	}
	return out, nil
}

// CampaignSummary reports a campaign's progress against its goal.
func (a *Analytics) CampaignSummary(ctx context.Context, name string) (*domain.CampaignSummary, error) {
	var out *domain.CampaignSummary
	err := a.store.WithReadTx(ctx, func(tx domain.Repositories) error {
		campaign, err := tx.Campaigns().GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("campaign %q: %w", name, domain.ErrNotFound)
			}
			return err
		}
		totals, err := tx.Analytics().CampaignTotals(ctx, campaign.Name)
		if err != nil {
			return err
		}
		out = &domain.CampaignSummary{
			Campaign:        campaign.Name,
			Status:          campaign.Status,
			Goal:            campaign.Goal,
			TotalRaised:     domain.FromCents(totals.TotalCents),
			ProgressPct:     domain.Percent(totals.TotalCents, domain.ToCents(campaign.Goal)),
			GiftCount:       int(totals.GiftCount),
			DonorCount:      int(totals.DonorCount),
			AverageGift:     domain.AverageCents(totals.TotalCents, totals.GiftCount),
			LargestGift:     domain.FromCents(totals.LargestCents),
			RecurringDonors: int(totals.RecurringDonors),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RetentionReport compares this UTC calendar year's donors with last year's.
func (a *Analytics) RetentionReport(ctx context.Context) (*domain.RetentionReport, error) {
	year := a.now().UTC().Year()
	thisYear := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	lastYear := thisYear.AddDate(-1, 0, 0)
	nextYear := thisYear.AddDate(1, 0, 0)

	var current, prior, earlier []string
	err := a.store.WithReadTx(ctx, func(tx domain.Repositories) error {
		var err error
		if current, err = tx.Analytics().DonorsBetween(ctx, thisYear, nextYear); err != nil {
			return err
		}
		if prior, err = tx.Analytics().DonorsBetween(ctx, lastYear, thisYear); err != nil {
			return err
		}
		earlier, err = tx.Analytics().DonorsBefore(ctx, lastYear)
		return err
	})
	if err != nil {
		return nil, err
	}

	currentSet := toSet(current)
	priorSet := toSet(prior)
	earlierSet := toSet(earlier)

	report := &domain.RetentionReport{
		Year:              year,
		RetainedDonors:    []string{},
		LapsedDonors:      []string{},
		NewDonors:         []string{},
		ReactivatedDonors: []string{},
	}
	for _, id := range current {
		switch {
		case priorSet[id]:
			report.RetainedDonors = append(report.RetainedDonors, id)
		case earlierSet[id]:
			report.ReactivatedDonors = append(report.ReactivatedDonors, id)
		default:
			report.NewDonors = append(report.NewDonors, id)
		}
	}
	for _, id := range prior {
		if !currentSet[id] {
			report.LapsedDonors = append(report.LapsedDonors, id)
		}
	}
	for _, ids := range [][]string{report.RetainedDonors, report.LapsedDonors, report.NewDonors, report.ReactivatedDonors} {
		sort.Strings(ids)
	}

	report.RetainedCount = len(report.RetainedDonors)
	report.LapsedCount = len(report.LapsedDonors)
	report.NewCount = len(report.NewDonors)
	report.ReactivatedCount = len(report.ReactivatedDonors)
	report.RetentionRate = domain.Ratio(int64(report.RetainedCount), int64(report.RetainedCount+report.LapsedCount))
	return report, nil
}

// TierSummary returns every tier in ascending order, including empty ones.
func (a *Analytics) TierSummary(ctx context.Context) ([]domain.TierBucket, error) {
	var rows []domain.TierBucket
	err := a.store.WithReadTx(ctx, func(tx domain.Repositories) error {
		var err error
		rows, err = tx.Analytics().TierTotals(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	byTier := make(map[domain.Tier]domain.TierBucket, len(rows))
	for _, row := range rows {
		byTier[row.Tier] = row
	}
	out := make([]domain.TierBucket, 0, len(domain.Tiers))
	for _, tier := range domain.Tiers {
		bucket := byTier[tier]
		bucket.Tier = tier
		out = append(out, bucket)
	}
	return out, nil
}

// OrphanCampaigns lists campaign names used by donations that have no campaign record.
func (a *Analytics) OrphanCampaigns(ctx context.Context) ([]domain.OrphanCampaign, error) {
	var out []domain.OrphanCampaign
	err := a.store.WithReadTx(ctx, func(tx domain.Repositories) error {
		var err error
		out, err = tx.Analytics().OrphanCampaigns(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.OrphanCampaign{}
	}
	return out, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
