package domain

import "time"

// DonationType distinguishes single gifts from recurring pledges.
type DonationType string

const (
	DonationTypeOneTime   DonationType = "one_time"
	DonationTypeRecurring DonationType = "recurring"
)

// Valid reports whether t is a known donation type.
func (t DonationType) Valid() bool {
	return t == DonationTypeOneTime || t == DonationTypeRecurring
}

// PaymentMethod records how a gift was paid.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodCheck      PaymentMethod = "check"
	MethodWire       PaymentMethod = "wire"
	MethodCrypto     PaymentMethod = "crypto"
	MethodCash       PaymentMethod = "cash"
	MethodStock      PaymentMethod = "stock"
	MethodStripe     PaymentMethod = "stripe"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodCheck, MethodWire, MethodCrypto, MethodCash, MethodStock, MethodStripe:
		return true
	}
	return false
}

// Donation represents a single gift from a donor.
type Donation struct {
	ID               string
	DonorID          string
	Amount           float64
	Campaign         string
	Type             DonationType
	Method           PaymentMethod
	Acknowledged     bool
	TaxReceiptSent   bool
	ReceivedAt       time.Time
	Notes            string
	ReferenceNumber  string
	ExternalChargeID string
}

// DonationFilter narrows ListDonations. Zero values match everything.
type DonationFilter struct {
	DonorID  string
	Campaign string
	Type     DonationType
}
