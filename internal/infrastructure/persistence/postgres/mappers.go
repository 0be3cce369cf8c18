package postgres

import (
	"encoding/json"

	"github.com/payloop/adyen-gateway/internal/domain"
)

func toDBModel(p *domain.Payment) paymentRow {
	row := paymentRow{
		ID:                p.ID,
		MerchantReference: p.MerchantReference,
		AmountMinor:       p.AmountMinor,
		Currency:          p.Currency,
		Status:            string(p.Status),
		RawResponse:       p.RawResponse,
		ReturnURL:         p.ReturnURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	if p.Method != "" {
		row.Method = &p.Method
	}
	if p.PSPReference != "" {
		row.PSPReference = &p.PSPReference
	}
	if p.FailureReason != "" {
		row.FailureReason = &p.FailureReason
	}

	return row
}

func toDomain(row paymentRow, notes []noteRow) *domain.Payment {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	domainNotes := make([]domain.Note, 0, len(notes))
	for _, n := range notes {
		domainNotes = append(domainNotes, domain.Note{
			ID:        n.ID,
			Kind:      n.Kind,
			Body:      json.RawMessage(n.Body),
			CreatedAt: n.CreatedAt,
		})
	}

	return domain.Reconstitute(
		row.ID,
		row.MerchantReference,
		row.AmountMinor,
		row.Currency,
		domain.PaymentStatus(row.Status),
		deref(row.Method),
		deref(row.PSPReference),
		deref(row.FailureReason),
		json.RawMessage(row.RawResponse),
		row.ReturnURL,
		row.CreatedAt,
		row.UpdatedAt,
		domainNotes,
	)
}
