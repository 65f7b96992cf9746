package domain

import "time"

// LifetimeValue summarises everything a donor has given.
type LifetimeValue struct {
	DonorID       string
	Name          string
	Tier          Tier
	TotalGiven    float64
	DonationCount int
	AverageGift   float64
	FirstDonation *time.Time
	LastDonation  *time.Time
	Campaigns     []string
}

// MajorGift is one row of the major-gifts report.
type MajorGift struct {
	DonorID      string
	Name         string
	Email        string
	Type         DonorType
	Tier         Tier
	TotalGiven   float64
	LastDonation *time.Time
}

// CampaignSummary reports progress of a campaign against its goal.
type CampaignSummary struct {
	Campaign        string
	Status          CampaignStatus
	Goal            float64
	TotalRaised     float64
	ProgressPct     float64
	GiftCount       int
	DonorCount      int
	AverageGift     float64
	LargestGift     float64
	RecurringDonors int
}

// CampaignTotals is the raw aggregate behind a CampaignSummary.
type CampaignTotals struct {
	TotalCents      int64
	GiftCount       int64
	DonorCount      int64
	LargestCents    int64
	RecurringDonors int64
}

// RetentionReport compares the donors of the current and prior calendar year.
type RetentionReport struct {
	Year              int
	RetainedDonors    []string
	LapsedDonors      []string
	NewDonors         []string
	ReactivatedDonors []string
	RetainedCount     int
	LapsedCount       int
	NewCount          int
	ReactivatedCount  int
	RetentionRate     float64
}

// TierBucket is one row of the tier summary.
type TierBucket struct {
	Tier       Tier
	DonorCount int
	TotalGiven float64
}

// OrphanCampaign is a campaign name used by donations without a Campaign record.
type OrphanCampaign struct {
	Name        string
	GiftCount   int
	TotalRaised float64
}

// GivingStats aggregates a single donor's donation rows.
type GivingStats struct {
	Count         int64
	TotalCents    int64
	FirstDonation *time.Time
	LastDonation  *time.Time
}
