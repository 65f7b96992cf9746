package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrPaymentFailed     = errors.New("payment failed")
	ErrUnavailable       = errors.New("unavailable")
	ErrChargeNotRecorded = errors.New("charge captured but donation not recorded")

	// ErrChargeDeclined marks a processor refusal as opposed to a transport failure.
	ErrChargeDeclined = errors.New("charge declined")
)
