package domain

import (
	"fmt"
	"time"
)

// DonorType classifies who is giving.
type DonorType string

const (
	DonorTypeIndividual DonorType = "individual"
	DonorTypeCorporate  DonorType = "corporate"
	DonorTypeFoundation DonorType = "foundation"
)

// Valid reports whether t is a known donor type.
func (t DonorType) Valid() bool {
	switch t {
	case DonorTypeIndividual, DonorTypeCorporate, DonorTypeFoundation:
		return true
	}
	return false
}

// Donor is a person or organisation that gives to the nonprofit.
type Donor struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Type           DonorType
	Tier           Tier
	TotalGiven     float64
	Campaigns      []string
	Notes          string
	AssignedTo     string
	Address        string
	TaxID          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastDonationAt *time.Time
}

// ApplyGift folds a recorded gift into the donor's running totals and
// recomputes the tier from the new total. The donor is left untouched when
// the gift is invalid or would push the total past MaxAmount.
func (d *Donor) ApplyGift(amount float64, campaign string, receivedAt, now time.Time) error {
	if err := ValidateAmount("gift", amount); err != nil {
		return err
	}
	total := ToCents(d.TotalGiven) + ToCents(amount)
	if total > maxCents {
		return fmt.Errorf("gift %v would take donor %s past the maximum total of %.0f: %w", amount, d.ID, MaxAmount, ErrInvalidArgument)
	}
	d.TotalGiven = FromCents(total)
	d.AddCampaign(campaign)
	if d.LastDonationAt == nil || receivedAt.After(*d.LastDonationAt) {
		ts := receivedAt
		d.LastDonationAt = &ts
	}
	d.UpdatedAt = now
	d.Tier = TierFor(d.TotalGiven)
	return nil
}

// AddCampaign appends campaign to the donor's set unless already present.
func (d *Donor) AddCampaign(campaign string) {
	if campaign == "" {
		return
	}
	for _, c := range d.Campaigns {
		if c == campaign {
			return
		}
	}
	d.Campaigns = append(d.Campaigns, campaign)
}

// DonorFilter narrows ListDonors. Zero values match everything.
type DonorFilter struct {
	Tier       Tier
	Type       DonorType
	AssignedTo string
}
