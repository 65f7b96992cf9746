package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
	"donorcrm/internal/sqlinline"
)

// DonorRepository implements domain.DonorRepository.
type DonorRepository struct {
	sql infra.SQLExecutor
}

// NewDonorRepository creates a new DonorRepository.
func NewDonorRepository(sql infra.SQLExecutor) *DonorRepository {
	return &DonorRepository{sql: sql}
}

// Create inserts a donor. A taken email yields domain.ErrDuplicateKey.
func (r *DonorRepository) Create(ctx context.Context, d *domain.Donor) error {
	campaigns, err := encodeCampaigns(d.Campaigns)
	if err != nil {
		return err
	}
	_, err = r.sql.Exec(ctx, sqlinline.QInsertDonor,
		d.ID,
		d.Name,
		d.Email,
		d.Phone,
		string(d.Type),
		string(d.Tier),
		domain.ToCents(d.TotalGiven),
		campaigns,
		d.Notes,
		d.AssignedTo,
		d.Address,
		d.TaxID,
		formatTimestamp(d.CreatedAt),
		formatTimestamp(d.UpdatedAt),
		formatNullableTimestamp(d.LastDonationAt),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("donor email %q: %w", d.Email, domain.ErrDuplicateKey)
		}
		return err
	}
	return nil
}

// GetByID fetches a donor by id.
func (r *DonorRepository) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	return scanDonor(r.sql.QueryRow(ctx, sqlinline.QSelectDonorByID, id))
}

// GetByEmail fetches a donor by its normalized email.
func (r *DonorRepository) GetByEmail(ctx context.Context, email string) (*domain.Donor, error) {
	return scanDonor(r.sql.QueryRow(ctx, sqlinline.QSelectDonorByEmail, email))
}

// List returns donors matching every non-empty filter field, ordered by name.
func (r *DonorRepository) List(ctx context.Context, f domain.DonorFilter) ([]domain.Donor, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonors, string(f.Tier), string(f.Type), f.AssignedTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update locks the donor row, lets mutate change it and persists the
// derived fields. Identity and contact fields are not written back.
func (r *DonorRepository) Update(ctx context.Context, id string, mutate func(*domain.Donor) error) (*domain.Donor, error) {
	d, err := scanDonor(r.sql.QueryRow(ctx, sqlinline.QSelectDonorForUpdate, id))
	if err != nil {
		return nil, err
	}
	if err := mutate(d); err != nil {
		return nil, err
	}
	campaigns, err := encodeCampaigns(d.Campaigns)
	if err != nil {
		return nil, err
	}
	_, err = r.sql.Exec(ctx, sqlinline.QUpdateDonorTotals,
		d.ID,
		string(d.Tier),
		domain.ToCents(d.TotalGiven),
		campaigns,
		formatTimestamp(d.UpdatedAt),
		formatNullableTimestamp(d.LastDonationAt),
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func scanDonor(row infra.Row) (*domain.Donor, error) {
	var (
		d                    domain.Donor
		donorType, tier      string
		totalCents           int64
		campaigns            string
		createdAt, updatedAt string
		lastDonation         sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.Phone,
		&donorType,
		&tier,
		&totalCents,
		&campaigns,
		&d.Notes,
		&d.AssignedTo,
		&d.Address,
		&d.TaxID,
		&createdAt,
		&updatedAt,
		&lastDonation,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	d.Type = domain.DonorType(donorType)
	d.Tier = domain.Tier(tier)
	d.TotalGiven = domain.FromCents(totalCents)
	if err := json.Unmarshal([]byte(campaigns), &d.Campaigns); err != nil {
		return nil, fmt.Errorf("decode donor %s campaigns: %w", d.ID, err)
	}

	var err error
	if d.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	if lastDonation.Valid {
		if d.LastDonationAt, err = parseNullableTimestamp(&lastDonation.String); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func encodeCampaigns(campaigns []string) (string, error) {
	if campaigns == nil {
		campaigns = []string{}
	}
	raw, err := json.Marshal(campaigns)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
