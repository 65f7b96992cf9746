package domain

import "time"

// DateLayout is the calendar-date format used for campaign windows.
const DateLayout = "2006-01-02"

// CampaignStatus tracks whether a campaign still accepts attention.
type CampaignStatus string

const (
	CampaignActive CampaignStatus = "active"
	CampaignClosed CampaignStatus = "closed"
)

// Valid reports whether s is a known status.
func (s CampaignStatus) Valid() bool {
	return s == CampaignActive || s == CampaignClosed
}

// Campaign is a named fundraising drive. Donations join to it by name.
type Campaign struct {
	ID          string
	Name        string
	Goal        float64
	StartDate   time.Time
	EndDate     time.Time
	Description string
	Status      CampaignStatus
	CreatedAt   time.Time
}
