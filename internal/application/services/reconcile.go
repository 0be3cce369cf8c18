package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/domain"
)

const (
	noteProviderResponse = "provider-response"
	noteProviderError    = "provider-error"
	noteNotification     = "notification"
)

// ReconcileService applies a parsed provider response to a payment's state.
// It is the only code that advances a payment's status from a synchronous
// response.
type ReconcileService struct {
	payments application.PaymentRepository
	logger   *slog.Logger
}

func NewReconcileService(payments application.PaymentRepository, logger *slog.Logger) *ReconcileService {
	return &ReconcileService{
		payments: payments,
		logger:   logger,
	}
}

// ApplyResponse mutates the payment from a payment or payment-details
// response and persists it. The durable write is the last step: a crash
// before it leaves the payment externally unchanged rather than partially
// applied.
func (s *ReconcileService) ApplyResponse(ctx context.Context, payment *domain.Payment, resp adyen.ResponseCommon) error {
	raw, err := json.Marshal(resp.Raw)
	if err != nil {
		return application.NewInternalError(err)
	}

	payment.AppendNote(noteProviderResponse, raw)
	payment.SetRawResponse(raw)

	if resp.PSPReference != "" {
		payment.SetPSPReference(resp.PSPReference)
	}

	if status, ok := resp.ResultCode.Status(); ok {
		if payment.AdvanceTo(status) {
			s.logger.Info("payment status advanced",
				"payment_id", payment.ID,
				"result_code", resp.ResultCode,
				"status", payment.Status,
			)
		}
	} else if resp.ResultCode != "" {
		s.logger.Info("unmapped result code, status unchanged",
			"payment_id", payment.ID,
			"result_code", resp.ResultCode,
		)
	}

	// The refusal-reason annotation is independent of the status write: a
	// refusal reason alone never forces FAILURE.
	if resp.RefusalReason != "" {
		payment.SetFailureReason(fmt.Sprintf("Refused by the issuer: %s", resp.RefusalReason))
	}

	if err := s.payments.Update(ctx, payment); err != nil {
		return application.NewInternalError(err)
	}

	return nil
}

// AnnotateProviderError records a provider-reported business error as an
// audit note without touching the payment status; the caller decides
// whether the error maps to FAILURE.
func (s *ReconcileService) AnnotateProviderError(ctx context.Context, payment *domain.Payment, provErr error) {
	note, err := json.Marshal(map[string]string{"error": provErr.Error()})
	if err != nil {
		return
	}
	payment.AppendNote(noteProviderError, note)

	if err := s.payments.Update(ctx, payment); err != nil {
		s.logger.Error("failed to persist provider error note",
			"payment_id", payment.ID,
			"error", err,
		)
	}
}
