package domain

import "context"

// ChargeRequest is a single synchronous charge against a payment processor.
// AmountMinor is in the currency's smallest unit.
type ChargeRequest struct {
	AmountMinor    int64
	Currency       string
	MethodToken    string
	Credential     string
	IdempotencyKey string
	Description    string
}

// ChargeResult is a confirmed charge.
type ChargeResult struct {
	ChargeID    string
	AmountMinor int64
	Currency    string
	Status      string
}

// Charger captures payments. It either confirms the charge or returns an error.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
