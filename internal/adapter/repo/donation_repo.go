package repo

import (
	"context"
	"fmt"

	"donorcrm/internal/domain"
	"donorcrm/internal/infra"
	"donorcrm/internal/sqlinline"
)

// DonationRepository implements domain.DonationRepository.
type DonationRepository struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepository {
	return &DonationRepository{sql: sql}
}

// Create inserts a new donation record. An unknown donor yields domain.ErrNotFound.
func (r *DonationRepository) Create(ctx context.Context, d *domain.Donation) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertDonation,
		d.ID,
		d.DonorID,
		domain.ToCents(d.Amount),
		d.Campaign,
		string(d.Type),
		string(d.Method),
		d.Acknowledged,
		d.TaxReceiptSent,
		formatTimestamp(d.ReceivedAt),
		d.Notes,
		d.ReferenceNumber,
		d.ExternalChargeID,
	)
	if err != nil {
		switch {
		case infra.IsForeignKeyViolation(err):
			return fmt.Errorf("donor %s: %w", d.DonorID, domain.ErrNotFound)
		case infra.IsUniqueViolation(err):
			return fmt.Errorf("donation %s: %w", d.ID, domain.ErrDuplicateKey)
		}
		return err
	}
	return nil
}

// GetByID fetches one donation.
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	return scanDonation(r.sql.QueryRow(ctx, sqlinline.QSelectDonationByID, id))
}

// List returns donations matching the filter, newest first.
func (r *DonationRepository) List(ctx context.Context, f domain.DonationFilter) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonations, f.DonorID, f.Campaign, string(f.Type))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
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

// MarkAcknowledged sets the acknowledged flag and reports whether the row exists.
func (r *DonationRepository) MarkAcknowledged(ctx context.Context, id string) (bool, error) {
	return r.update(ctx, sqlinline.QAcknowledgeDonation, id)
}

// MarkReceiptSent sets both the receipt and acknowledged flags.
func (r *DonationRepository) MarkReceiptSent(ctx context.Context, id string) (bool, error) {
	return r.update(ctx, sqlinline.QMarkReceiptSent, id)
}

func (r *DonationRepository) update(ctx context.Context, query, id string) (bool, error) {
	res, err := r.sql.Exec(ctx, query, id, true)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanDonation(row infra.Row) (*domain.Donation, error) {
	var (
		d            domain.Donation
		amountCents  int64
		donationType string
		method       string
		receivedAt   string
	)
	if err := row.Scan(
		&d.ID,
		&d.DonorID,
		&amountCents,
		&d.Campaign,
		&donationType,
		&method,
		&d.Acknowledged,
		&d.TaxReceiptSent,
		&receivedAt,
		&d.Notes,
		&d.ReferenceNumber,
		&d.ExternalChargeID,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	d.Amount = domain.FromCents(amountCents)
	d.Type = domain.DonationType(donationType)
	d.Method = domain.PaymentMethod(method)

	ts, err := parseTimestamp(receivedAt)
	if err != nil {
		return nil, err
	}
	d.ReceivedAt = ts
	return &d, nil
}
