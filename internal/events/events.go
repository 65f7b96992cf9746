// Package events publishes domain events after a write has committed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeDonationRecorded = "donation.recorded"
	TypeTierChanged      = "donor.tier_changed"
)

// Event is the JSON payload sent to subscribers. Key is the donor id, used
// as the Kafka message key so one donor's events stay ordered.
type Event struct {
	Type       string    `json:"event_type"`
	Key        string    `json:"-"`
	DonorID    string    `json:"donor_id"`
	DonationID string    `json:"donation_id,omitempty"`
	Campaign   string    `json:"campaign,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	Method     string    `json:"method,omitempty"`
	TotalGiven float64   `json:"total_given"`
	Tier       string    `json:"tier"`
	PrevTier   string    `json:"previous_tier,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

func encode(event Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	return payload, nil
}

func key(event Event) string {
	if event.Key != "" {
		return event.Key
	}
	return event.DonorID
}
