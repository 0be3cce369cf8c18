package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/domain"
)

// NotificationService applies webhook notification items to payments.
// Providers deliver notifications out of order and more than once;
// correctness rests on the dedup store and the non-regressing status rules,
// not on arrival order.
type NotificationService struct {
	payments application.PaymentRepository
	tx       application.TransactionCoordinator
	logger   *slog.Logger
}

func NewNotificationService(
	payments application.PaymentRepository,
	tx application.TransactionCoordinator,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		payments: payments,
		tx:       tx,
		logger:   logger,
	}
}

// ProcessBatch applies every item of a webhook envelope independently. A
// per-item failure is logged and must not abort the remaining items; the
// endpoint acknowledges the batch regardless.
func (s *NotificationService) ProcessBatch(ctx context.Context, req *adyen.NotificationRequest) {
	for _, item := range req.Items {
		if err := s.Apply(ctx, item); err != nil {
			s.logger.Error("failed to apply notification item",
				"psp_reference", item.PSPReference,
				"event_code", item.EventCode,
				"merchant_reference", item.MerchantReference,
				"error", err,
			)
		}
	}
}

// Apply processes one notification item. Idempotent by the
// (pspReference, eventCode, success) triple: a re-delivered item is a
// no-op. A missing payment is logged and skipped, never an error, so the
// provider does not queue retries for payments this service never owned.
//
// The dedup insert and the payment write commit in one transaction: a
// failed payment write rolls the triple back too, so the provider's
// redelivery of the same item is not mistaken for a duplicate.
func (s *NotificationService) Apply(ctx context.Context, item adyen.NotificationItem) error {
	payment, err := s.payments.FindByMerchantReference(ctx, item.MerchantReference)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
			s.logger.Warn("notification for unknown payment, skipping",
				"merchant_reference", item.MerchantReference,
				"event_code", item.EventCode,
			)
			return nil
		}
		return application.NewInternalError(err)
	}

	raw, err := json.Marshal(item.Raw)
	if err != nil {
		return application.NewInternalError(err)
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, payments application.PaymentRepository, store application.NotificationStore) error {
		first, err := store.MarkProcessed(ctx, item.PSPReference, string(item.EventCode), item.Success)
		if err != nil {
			return application.NewInternalError(err)
		}
		if !first {
			s.logger.Info("duplicate notification ignored",
				"payment_id", payment.ID,
				"psp_reference", item.PSPReference,
				"event_code", item.EventCode,
			)
			return nil
		}

		payment.AppendNote(noteNotification, raw)

		switch {
		case !item.EventCode.DrivesStatus():
			// Stored for the audit trail only; REPORT_AVAILABLE and friends
			// never move the state machine.
			s.logger.Info("non-authorisation notification recorded",
				"payment_id", payment.ID,
				"event_code", item.EventCode,
			)

		case payment.Status == domain.StatusSuccess:
			// Terminal; never regresses.

		case item.Success:
			payment.AdvanceTo(domain.StatusSuccess)
			payment.SetPSPReference(item.PSPReference)
			if method, ok := adyen.ProviderTypeToMethod(item.PaymentMethod); ok {
				payment.Method = method
			}

		default:
			payment.AdvanceTo(domain.StatusFailure)
			if item.Reason != "" {
				payment.SetFailureReason(item.Reason)
			}
		}

		if err := payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}

		return nil
	})
}
