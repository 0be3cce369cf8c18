package postgres

import "time"

// paymentRow mirrors the payments table.
type paymentRow struct {
	ID                string
	MerchantReference string
	AmountMinor       int64
	Currency          string
	Status            string
	Method            *string
	PSPReference      *string
	FailureReason     *string
	RawResponse       []byte
	ReturnURL         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// noteRow mirrors the payment_notes table.
type noteRow struct {
	ID        string
	PaymentID string
	Kind      string
	Body      []byte
	CreatedAt time.Time
}
