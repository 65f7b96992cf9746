package repo

import (
	"context"
	"time"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
)

// timestampLayout is fixed-width so lexical order matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Store implements domain.Store over an infra.TxRunner.
type Store struct {
	runner infra.TxRunner
	repos
}

type repos struct {
	donors    *DonorRepository
	donations *DonationRepository
	campaigns *CampaignRepository
	analytics *AnalyticsRepository
}

// NewStore builds the record store on top of the SQL runner.
func NewStore(runner infra.TxRunner) *Store {
	return &Store{runner: runner, repos: newRepos(runner)}
}

func newRepos(sql infra.SQLExecutor) repos {
	return repos{
		donors:    NewDonorRepository(sql),
		donations: NewDonationRepository(sql),
		campaigns: NewCampaignRepository(sql),
		analytics: NewAnalyticsRepository(sql),
	}
}

func (r repos) Donors() domain.DonorRepository        { return r.donors }
func (r repos) Donations() domain.DonationRepository  { return r.donations }
func (r repos) Campaigns() domain.CampaignRepository  { return r.campaigns }
func (r repos) Analytics() domain.AnalyticsRepository { return r.analytics }

// WithTx runs fn with repositories bound to a single transaction.
func (s *Store) WithTx(ctx context.Context, fn func(domain.Repositories) error) error {
	return s.runner.WithTx(ctx, func(tx infra.SQLExecutor) error {
		return fn(newRepos(tx))
	})
}

// WithReadTx runs fn with repositories bound to a read-only snapshot.
func (s *Store) WithReadTx(ctx context.Context, fn func(domain.Repositories) error) error {
	return s.runner.WithReadTx(ctx, func(tx infra.SQLExecutor) error {
		return fn(newRepos(tx))
	})
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(timestampLayout, raw)
}

func formatNullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func parseNullableTimestamp(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	ts, err := parseTimestamp(*raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

var _ domain.Store = (*Store)(nil)
