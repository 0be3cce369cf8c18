// Package domain encodes the payment entity and its lifecycle.
package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	StatusOpen      PaymentStatus = "OPEN"
	StatusSuccess   PaymentStatus = "SUCCESS"
	StatusCancelled PaymentStatus = "CANCELLED"
	StatusFailure   PaymentStatus = "FAILURE"
	StatusExpired   PaymentStatus = "EXPIRED"
)

// Note is one audit entry attached to a payment. The body is the raw
// provider JSON (or a small structured blob) kept verbatim for traceability.
type Note struct {
	ID        string
	Kind      string
	Body      json.RawMessage
	CreatedAt time.Time
}

type Payment struct {
	ID                string
	MerchantReference string
	AmountMinor       int64
	Currency          string
	Status            PaymentStatus
	Method            string

	PSPReference  string
	FailureReason string

	// RawResponse holds the last provider response body so a pending
	// /payments/details exchange can be resumed later.
	RawResponse json.RawMessage
	ReturnURL   string

	CreatedAt time.Time
	UpdatedAt time.Time

	Notes []Note
}

func NewPayment(id, merchantReference string, amount Money, returnURL string) (*Payment, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("payment ID")
	}
	if merchantReference == "" {
		return nil, NewMissingRequiredFieldError("merchant reference")
	}
	if len(merchantReference) > 80 {
		return nil, errors.New("merchant reference must be at most 80 characters")
	}
	if returnURL == "" {
		return nil, NewMissingRequiredFieldError("return URL")
	}

	now := time.Now()
	return &Payment{
		ID:                id,
		MerchantReference: merchantReference,
		AmountMinor:       amount.Amount,
		Currency:          amount.Currency,
		Status:            StatusOpen,
		ReturnURL:         returnURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// AdvanceTo moves the payment to the target status, enforcing the
// non-regression rules: SUCCESS is terminal, CANCELLED/FAILURE/EXPIRED only
// ever move forward to SUCCESS (a late authorisation wins over an earlier
// refusal or abandonment). Advancing to the current status is a no-op.
// It reports whether the status actually changed.
func (p *Payment) AdvanceTo(target PaymentStatus) bool {
	if target == "" || target == p.Status {
		return false
	}

	switch p.Status {
	case StatusSuccess:
		return false
	case StatusCancelled, StatusFailure, StatusExpired:
		if target != StatusSuccess {
			return false
		}
	}

	p.Status = target
	p.UpdatedAt = time.Now()
	return true
}

// Reopen puts a non-successful payment back into OPEN. The host uses this
// when the shopper restarts an abandoned attempt; it never reopens SUCCESS.
func (p *Payment) Reopen() error {
	if p.Status == StatusSuccess {
		return NewInvalidTransitionError(p.Status, StatusOpen)
	}
	p.Status = StatusOpen
	p.UpdatedAt = time.Now()
	return nil
}

// SetPSPReference records the provider transaction id. Later references
// supersede earlier ones (a capture reference replaces the authorisation).
func (p *Payment) SetPSPReference(ref string) {
	if ref == "" {
		return
	}
	p.PSPReference = ref
	p.UpdatedAt = time.Now()
}

func (p *Payment) SetFailureReason(reason string) {
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
}

func (p *Payment) SetRawResponse(body json.RawMessage) {
	p.RawResponse = body
	p.UpdatedAt = time.Now()
}

// AppendNote attaches an audit entry to the payment.
func (p *Payment) AppendNote(kind string, body json.RawMessage) {
	p.Notes = append(p.Notes, Note{
		ID:        uuid.NewString(),
		Kind:      kind,
		Body:      body,
		CreatedAt: time.Now(),
	})
	p.UpdatedAt = time.Now()
}

// IsTerminal reports whether the payment reached a state the provider can
// no longer move except to SUCCESS.
func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case StatusSuccess, StatusCancelled, StatusFailure, StatusExpired:
		return true
	default:
		return false
	}
}

// Reconstitute - Special constructor for loading from DB
func Reconstitute(
	id, merchantReference string,
	amount int64, currency string,
	status PaymentStatus,
	method, pspReference, failureReason string,
	rawResponse json.RawMessage,
	returnURL string,
	createdAt, updatedAt time.Time,
	notes []Note,
) *Payment {
	return &Payment{
		ID:                id,
		MerchantReference: merchantReference,
		AmountMinor:       amount,
		Currency:          currency,
		Status:            status,
		Method:            method,
		PSPReference:      pspReference,
		FailureReason:     failureReason,
		RawResponse:       rawResponse,
		ReturnURL:         returnURL,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
		Notes:             notes,
	}
}
