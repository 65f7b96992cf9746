package handlers

import (
	"time"

	"donorcrm/internal/domain"
)

type campaignRequest struct {
	Name        string  `json:"name"`
	Goal        float64 `json:"goal"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Description string  `json:"description"`
}

type campaignStatusRequest struct {
	Status string `json:"status"`
}

type campaignResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Goal        float64   `json:"goal"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Goal:        c.Goal,
		StartDate:   c.StartDate.Format(domain.DateLayout),
		EndDate:     c.EndDate.Format(domain.DateLayout),
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

type donorRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DonorType  string `json:"donor_type"`
	Notes      string `json:"notes"`
	AssignedTo string `json:"assigned_to"`
	Address    string `json:"address"`
	TaxID      string `json:"tax_id"`
}

type donorResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	DonorType      string     `json:"donor_type"`
	Tier           string     `json:"tier"`
	TotalGiven     float64    `json:"total_given"`
	Campaigns      []string   `json:"campaigns"`
	Notes          string     `json:"notes"`
	AssignedTo     string     `json:"assigned_to"`
	Address        string     `json:"address"`
	TaxID          string     `json:"tax_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastDonationAt *time.Time `json:"last_donation_at"`
}

func toDonorResponse(d domain.Donor) donorResponse {
	campaigns := d.Campaigns
	if campaigns == nil {
		campaigns = []string{}
	}
	return donorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		DonorType:      string(d.Type),
		Tier:           string(d.Tier),
		TotalGiven:     d.TotalGiven,
		Campaigns:      campaigns,
		Notes:          d.Notes,
		AssignedTo:     d.AssignedTo,
		Address:        d.Address,
		TaxID:          d.TaxID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		LastDonationAt: d.LastDonationAt,
	}
}

type donationRequest struct {
	DonorID         string     `json:"donor_id"`
	Amount          float64    `json:"amount"`
	Campaign        string     `json:"campaign"`
	DonationType    string     `json:"donation_type"`
	Method          string     `json:"method"`
	Notes           string     `json:"notes"`
	ReferenceNumber string     `json:"reference_number"`
	ReceivedAt      *time.Time `json:"received_at"`
}

type donationResponse struct {
	ID               string    `json:"id"`
	DonorID          string    `json:"donor_id"`
	Amount           float64   `json:"amount"`
	Campaign         string    `json:"campaign"`
	DonationType     string    `json:"donation_type"`
	Method           string    `json:"method"`
	Acknowledged     bool      `json:"acknowledged"`
	TaxReceiptSent   bool      `json:"tax_receipt_sent"`
	ReceivedAt       time.Time `json:"received_at"`
	Notes            string    `json:"notes"`
	ReferenceNumber  string    `json:"reference_number"`
	ExternalChargeID string    `json:"external_charge_id,omitempty"`
}

func toDonationResponse(d domain.Donation) donationResponse {
	return donationResponse{
		ID:               d.ID,
		DonorID:          d.DonorID,
		Amount:           d.Amount,
		Campaign:         d.Campaign,
		DonationType:     string(d.Type),
		Method:           string(d.Method),
		Acknowledged:     d.Acknowledged,
		TaxReceiptSent:   d.TaxReceiptSent,
		ReceivedAt:       d.ReceivedAt,
		Notes:            d.Notes,
		ReferenceNumber:  d.ReferenceNumber,
		ExternalChargeID: d.ExternalChargeID,
	}
}

type chargeRequest struct {
	DonorID       string `json:"donor_id"`
	AmountMinor   int64  `json:"amount_minor"`
	Currency      string `json:"currency"`
	Campaign      string `json:"campaign"`
	PaymentMethod string `json:"payment_method_token"`
	APICredential string `json:"api_credential"`
	DonationType  string `json:"donation_type"`
	Notes         string `json:"notes"`
}

type ltvResponse struct {
	DonorID       string     `json:"donor_id"`
	Name          string     `json:"name"`
	Tier          string     `json:"tier"`
	TotalGiven    float64    `json:"total_given"`
	DonationCount int        `json:"donation_count"`
	AverageGift   float64    `json:"average_gift"`
	FirstDonation *time.Time `json:"first_donation"`
	LastDonation  *time.Time `json:"last_donation"`
	Campaigns     []string   `json:"campaigns"`
}

type majorGiftResponse struct {
	DonorID      string     `json:"donor_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	DonorType    string     `json:"donor_type"`
	Tier         string     `json:"tier"`
	TotalGiven   float64    `json:"total_given"`
	LastDonation *time.Time `json:"last_donation"`
}

type campaignSummaryResponse struct {
	Campaign        string  `json:"campaign"`
	Status          string  `json:"status"`
	Goal            float64 `json:"goal"`
	TotalRaised     float64 `json:"total_raised"`
	ProgressPct     float64 `json:"progress_pct"`
	GiftCount       int     `json:"gift_count"`
	DonorCount      int     `json:"donor_count"`
	AverageGift     float64 `json:"average_gift"`
	LargestGift     float64 `json:"largest_gift"`
	RecurringDonors int     `json:"recurring_donors"`
}

type retentionResponse struct {
	Year              int      `json:"year"`
	RetainedDonors    []string `json:"retained_donors"`
	LapsedDonors      []string `json:"lapsed_donors"`
	NewDonors         []string `json:"new_donors"`
	ReactivatedDonors []string `json:"reactivated_donors"`
	RetainedCount     int      `json:"retained_count"`
	LapsedCount       int      `json:"lapsed_count"`
	NewCount          int      `json:"new_count"`
	ReactivatedCount  int      `json:"reactivated_count"`
	RetentionRate     float64  `json:"retention_rate"`
}

type tierBucketResponse struct {
	Tier       string  `json:"tier"`
	DonorCount int     `json:"donor_count"`
	TotalGiven float64 `json:"total_given"`
}

type orphanCampaignResponse struct {
	Campaign    string  `json:"campaign"`
	GiftCount   int     `json:"gift_count"`
	TotalRaised float64 `json:"total_raised"`
}
