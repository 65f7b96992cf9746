package repo

import (
	"context"
	"database/sql"
	"time"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
	"donorcrm/internal/sqlinline"
)

// AnalyticsRepository implements domain.AnalyticsRepository. It never writes.
type AnalyticsRepository struct {
	sql infra.SQLExecutor
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(sql infra.SQLExecutor) *AnalyticsRepository {
	return &AnalyticsRepository{sql: sql}
}

// GivingStats aggregates the donation rows of one donor.
func (r *AnalyticsRepository) GivingStats(ctx context.Context, donorID string) (*domain.GivingStats, error) {
	var (
		stats       domain.GivingStats
		first, last sql.NullString
	)
	if err := r.sql.QueryRow(ctx, sqlinline.QDonorGivingStats, donorID).
		Scan(&stats.Count, &stats.TotalCents, &first, &last); err != nil {
		return nil, err
	}
	var err error
	if first.Valid {
		if stats.FirstDonation, err = parseNullableTimestamp(&first.String); err != nil {
			return nil, err
		}
	}
	if last.Valid {
		if stats.LastDonation, err = parseNullableTimestamp(&last.String); err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// MajorGifts lists donors whose lifetime total strictly exceeds thresholdCents.
func (r *AnalyticsRepository) MajorGifts(ctx context.Context, thresholdCents int64) ([]domain.MajorGift, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QMajorGifts, thresholdCents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MajorGift
	for rows.Next() {
		var (
			g               domain.MajorGift
			donorType, tier string
			totalCents      int64
			last            sql.NullString
		)
		if err := rows.Scan(&g.DonorID, &g.Name, &g.Email, &donorType, &tier, &totalCents, &last); err != nil {
			return nil, err
		}
		g.Type = domain.DonorType(donorType)
		g.Tier = domain.Tier(tier)
		g.TotalGiven = domain.FromCents(totalCents)
		if last.Valid {
			if g.LastDonation, err = parseNullableTimestamp(&last.String); err != nil {
				return nil, err
			}
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CampaignTotals aggregates donations tagged with the campaign name.
func (r *AnalyticsRepository) CampaignTotals(ctx context.Context, campaign string) (*domain.CampaignTotals, error) {
	var t domain.CampaignTotals
	if err := r.sql.QueryRow(ctx, sqlinline.QCampaignTotals, campaign).
		Scan(&t.TotalCents, &t.GiftCount, &t.DonorCount, &t.LargestCents, &t.RecurringDonors); err != nil {
		return nil, err
	}
	return &t, nil
}

// DonorsBetween returns distinct donor ids with a donation in [from, to).
func (r *AnalyticsRepository) DonorsBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	return r.donorIDs(ctx, sqlinline.QDonorsReceivedBetween, formatTimestamp(from), formatTimestamp(to))
}

// DonorsBefore returns distinct donor ids with a donation strictly before the instant.
func (r *AnalyticsRepository) DonorsBefore(ctx context.Context, before time.Time) ([]string, error) {
	return r.donorIDs(ctx, sqlinline.QDonorsReceivedBefore, formatTimestamp(before))
}

// TierTotals groups donors by their stored tier. Tiers without donors are absent.
func (r *AnalyticsRepository) TierTotals(ctx context.Context) ([]domain.TierBucket, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QTierTotals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.TierBucket
	for rows.Next() {
		var (
			tier       string
			count      int64
			totalCents int64
		)
		if err := rows.Scan(&tier, &count, &totalCents); err != nil {
			return nil, err
		}
		items = append(items, domain.TierBucket{
			Tier:       domain.Tier(tier),
			DonorCount: int(count),
			TotalGiven: domain.FromCents(totalCents),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// OrphanCampaigns lists campaign names referenced by donations but never created.
func (r *AnalyticsRepository) OrphanCampaigns(ctx context.Context) ([]domain.OrphanCampaign, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QOrphanCampaigns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrphanCampaign
	for rows.Next() {
		var (
			o          domain.OrphanCampaign
			count      int64
			totalCents int64
		)
		if err := rows.Scan(&o.Name, &count, &totalCents); err != nil {
			return nil, err
		}
		o.GiftCount = int(count)
		o.TotalRaised = domain.FromCents(totalCents)
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AnalyticsRepository) donorIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
