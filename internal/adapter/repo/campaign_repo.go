package repo

import (
	"context"
	"fmt"
	"time"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
	"donorcrm/internal/sqlinline"
)

// CampaignRepository implements domain.CampaignRepository.
type CampaignRepository struct {
	sql infra.SQLExecutor
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(sql infra.SQLExecutor) *CampaignRepository {
	return &CampaignRepository{sql: sql}
}

// Create inserts a campaign. A taken name yields domain.ErrDuplicateKey.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertCampaign,
		c.ID,
		c.Name,
		domain.ToCents(c.Goal),
		c.StartDate.Format(domain.DateLayout),
		c.EndDate.Format(domain.DateLayout),
		c.Description,
		string(c.Status),
		formatTimestamp(c.CreatedAt),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("campaign %q: %w", c.Name, domain.ErrDuplicateKey)
		}
		return err
	}
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return scanCampaign(r.sql.QueryRow(ctx, sqlinline.QSelectCampaignByID, id))
}

func (r *CampaignRepository) GetByName(ctx context.Context, name string) (*domain.Campaign, error) {
	return scanCampaign(r.sql.QueryRow(ctx, sqlinline.QSelectCampaignByName, name))
}

// List returns campaigns, optionally restricted to one status, latest start first.
func (r *CampaignRepository) List(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCampaigns, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CampaignRepository) SetStatus(ctx context.Context, name string, status domain.CampaignStatus) (bool, error) {
	res, err := r.sql.Exec(ctx, sqlinline.QUpdateCampaignStatus, name, string(status))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanCampaign(row infra.Row) (*domain.Campaign, error) {
	var (
		c                  domain.Campaign
		goalCents          int64
		startDate, endDate string
		status, createdAt  string
	)
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&goalCents,
		&startDate,
		&endDate,
		&c.Description,
		&status,
		&createdAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	c.Goal = domain.FromCents(goalCents)
	c.Status = domain.CampaignStatus(status)

	var err error
	if c.StartDate, err = time.Parse(domain.DateLayout, startDate); err != nil {
		return nil, fmt.Errorf("campaign %s start date: %w", c.Name, err)
	}
	if c.EndDate, err = time.Parse(domain.DateLayout, endDate); err != nil {
		return nil, fmt.Errorf("campaign %s end date: %w", c.Name, err)
	}
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}
