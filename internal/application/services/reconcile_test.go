package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T, repo *MockPaymentRepository) *domain.Payment {
	t.Helper()
	money, err := domain.NewMoney(1000, "EUR")
	require.NoError(t, err)

	payment, err := domain.NewPayment("pay-1", "order-42", money, "https://shop.example/done")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), payment))
	return payment
}

func parseResponse(t *testing.T, raw string) adyen.ResponseCommon {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	resp, err := adyen.ParsePaymentResponse(adyen.Object(doc))
	require.NoError(t, err)
	return resp.ResponseCommon
}

func TestReconcileService_ApplyResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("authorised response moves the payment to SUCCESS", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		payment := newTestPayment(t, repo)
		svc := NewReconcileService(repo, discardLogger())

		resp := parseResponse(t, `{"resultCode":"Authorised","pspReference":"883580976999434D"}`)

		require.NoError(t, svc.ApplyResponse(ctx, payment, resp))

		assert.Equal(t, domain.StatusSuccess, payment.Status)
		assert.Equal(t, "883580976999434D", payment.PSPReference)
		require.Len(t, payment.Notes, 1)
		assert.Equal(t, noteProviderResponse, payment.Notes[0].Kind)
		assert.NotEmpty(t, payment.RawResponse)
		assert.Equal(t, 1, repo.UpdateCount)
	})

	t.Run("refused response moves the payment to FAILURE with the reason", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		payment := newTestPayment(t, repo)
		svc := NewReconcileService(repo, discardLogger())

		resp := parseResponse(t, `{"resultCode":"Refused","refusalReason":"Insufficient funds"}`)

		require.NoError(t, svc.ApplyResponse(ctx, payment, resp))

		assert.Equal(t, domain.StatusFailure, payment.Status)
		assert.Equal(t, "Refused by the issuer: Insufficient funds", payment.FailureReason)
	})

	t.Run("unmapped result code leaves the status untouched", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		payment := newTestPayment(t, repo)
		svc := NewReconcileService(repo, discardLogger())

		resp := parseResponse(t, `{"resultCode":"ChallengeShopper","paymentData":"blob"}`)

		require.NoError(t, svc.ApplyResponse(ctx, payment, resp))

		assert.Equal(t, domain.StatusOpen, payment.Status)
		require.Len(t, payment.Notes, 1)
		assert.Equal(t, 1, repo.UpdateCount)
	})

	t.Run("redirect response keeps the payment OPEN and stores the body", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		payment := newTestPayment(t, repo)
		svc := NewReconcileService(repo, discardLogger())

		resp := parseResponse(t, `{
			"resultCode":"RedirectShopper",
			"action":{"type":"redirect","url":"https://issuer.example"},
			"paymentData":"Ab02b4c0..."
		}`)

		require.NoError(t, svc.ApplyResponse(ctx, payment, resp))

		assert.Equal(t, domain.StatusOpen, payment.Status)
		assert.Contains(t, string(payment.RawResponse), "Ab02b4c0...")
	})

	t.Run("applying the same response twice is idempotent on status", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		payment := newTestPayment(t, repo)
		svc := NewReconcileService(repo, discardLogger())

		resp := parseResponse(t, `{"resultCode":"Authorised","pspReference":"X"}`)

		require.NoError(t, svc.ApplyResponse(ctx, payment, resp))
		require.NoError(t, svc.ApplyResponse(ctx, payment, resp))

		assert.Equal(t, domain.StatusSuccess, payment.Status)
	})

	t.Run("a late refusal never regresses SUCCESS", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		payment := newTestPayment(t, repo)
		svc := NewReconcileService(repo, discardLogger())

		require.NoError(t, svc.ApplyResponse(ctx, payment, parseResponse(t, `{"resultCode":"Authorised"}`)))
		require.NoError(t, svc.ApplyResponse(ctx, payment, parseResponse(t, `{"resultCode":"Refused","refusalReason":"late"}`)))

		assert.Equal(t, domain.StatusSuccess, payment.Status)
	})

	t.Run("a failing repository write surfaces as an internal error", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		payment := newTestPayment(t, repo)
		repo.UpdateFn = func(ctx context.Context, p *domain.Payment) error {
			return errors.New("connection reset")
		}
		svc := NewReconcileService(repo, discardLogger())

		err := svc.ApplyResponse(ctx, payment, parseResponse(t, `{"resultCode":"Authorised"}`))

		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInternal, svcErr.Code)
	})
}

func TestReconcileService_AnnotateProviderError(t *testing.T) {
	repo := NewMockPaymentRepository()
	payment := newTestPayment(t, repo)
	svc := NewReconcileService(repo, discardLogger())

	svc.AnnotateProviderError(context.Background(), payment, &adyen.ServiceException{
		Status:    422,
		ErrorCode: "14_012",
		Message:   "The amount is invalid",
	})

	assert.Equal(t, domain.StatusOpen, payment.Status)
	require.Len(t, payment.Notes, 1)
	assert.Equal(t, noteProviderError, payment.Notes[0].Kind)
	assert.Contains(t, string(payment.Notes[0].Body), "14_012")
}
