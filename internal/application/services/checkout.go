package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/domain"
)

const (
	applicationName    = "payloop-adyen-gateway"
	applicationVersion = "1.0.0"
)

// CheckoutService drives a single payment attempt: create the payment row,
// submit the shopper's payment method to the provider, resume pending
// redirect flows with /payments/details, and reconcile every reply.
type CheckoutService struct {
	payments   application.PaymentRepository
	client     application.CheckoutClient
	reconciler *ReconcileService
	logger     *slog.Logger
}

func NewCheckoutService(
	payments application.PaymentRepository,
	client application.CheckoutClient,
	reconciler *ReconcileService,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		payments:   payments,
		client:     client,
		reconciler: reconciler,
		logger:     logger,
	}
}

type CreatePaymentCommand struct {
	MerchantReference string
	AmountMinor       int64
	Currency          string
	ReturnURL         string
}

// CreatePayment opens a new payment in OPEN status.
func (s *CheckoutService) CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (*domain.Payment, error) {
	money, err := domain.NewMoney(cmd.AmountMinor, cmd.Currency)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	payment, err := domain.NewPayment(uuid.NewString(), cmd.MerchantReference, money, cmd.ReturnURL)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment created",
		"payment_id", payment.ID,
		"merchant_reference", payment.MerchantReference,
		"amount", payment.AmountMinor,
		"currency", payment.Currency,
	)

	return payment, nil
}

// SubmitPaymentMethodCommand carries the drop-in's state blob plus the
// shopper context captured at the boundary.
type SubmitPaymentMethodCommand struct {
	PaymentID     string
	PaymentMethod adyen.PaymentMethodDetails
	BrowserInfo   *adyen.BrowserInfo
	ShopperIP     string
	Origin        string
	ReturnURL     string
}

// SubmitPaymentMethod builds a payment request for an existing payment,
// sends it, and applies the reply.
func (s *CheckoutService) SubmitPaymentMethod(ctx context.Context, cmd SubmitPaymentMethodCommand) (*adyen.PaymentResponse, *domain.Payment, error) {
	payment, err := s.findPayment(ctx, cmd.PaymentID)
	if err != nil {
		return nil, nil, err
	}

	amount, err := adyen.NewAmount(payment.Currency, payment.AmountMinor)
	if err != nil {
		return nil, nil, application.NewInvalidInputError(err)
	}

	req, err := adyen.NewPaymentRequest(
		amount,
		s.client.MerchantAccount(),
		payment.MerchantReference,
		cmd.ReturnURL,
		cmd.PaymentMethod,
	)
	if err != nil {
		return nil, nil, application.NewInvalidInputError(err)
	}

	req.Channel = adyen.ChannelWeb
	req.Origin = cmd.Origin
	req.ShopperIP = cmd.ShopperIP
	req.BrowserInfo = cmd.BrowserInfo
	req.ApplicationInfo = &adyen.ApplicationInfo{
		MerchantApplication: &adyen.ApplicationInfoEntry{
			Name:    applicationName,
			Version: applicationVersion,
		},
	}

	if method, ok := adyen.ProviderTypeToMethod(cmd.PaymentMethod.Type()); ok {
		payment.Method = method
	}

	resp, err := s.client.Payments(ctx, req)
	if err != nil {
		return nil, nil, s.handleProviderError(ctx, payment, err)
	}

	if err := s.reconciler.ApplyResponse(ctx, payment, resp.ResponseCommon); err != nil {
		return nil, nil, err
	}

	return resp, payment, nil
}

// SubmitDetails resumes a pending redirect or challenge flow. When the
// caller carries no paymentData, the blob stored with the last provider
// response is used.
func (s *CheckoutService) SubmitDetails(ctx context.Context, paymentID string, details adyen.Object, paymentData string) (*adyen.PaymentDetailsResponse, *domain.Payment, error) {
	payment, err := s.findPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	req, err := adyen.NewPaymentDetailsRequest(details)
	if err != nil {
		return nil, nil, application.NewInvalidInputError(err)
	}

	if paymentData == "" {
		paymentData = storedPaymentData(payment)
	}
	req.PaymentData = paymentData

	resp, err := s.client.PaymentDetails(ctx, req)
	if err != nil {
		return nil, nil, s.handleProviderError(ctx, payment, err)
	}

	if err := s.reconciler.ApplyResponse(ctx, payment, resp.ResponseCommon); err != nil {
		return nil, nil, err
	}

	return resp, payment, nil
}

// HandleReturn reconciles a shopper returning from the issuer and hands
// back the URL to send them to.
func (s *CheckoutService) HandleReturn(ctx context.Context, paymentID, redirectResult string) (string, error) {
	payment, err := s.findPayment(ctx, paymentID)
	if err != nil {
		return "", err
	}

	if redirectResult != "" {
		details := adyen.Object{"redirectResult": redirectResult}
		if _, updated, derr := s.SubmitDetails(ctx, paymentID, details, ""); derr != nil {
			// The shopper still gets redirected; the status poller or a
			// webhook settles the payment later.
			s.logger.Error("failed to reconcile return redirect",
				"payment_id", paymentID,
				"error", derr,
			)
		} else {
			payment = updated
		}
	}

	return payment.ReturnURL, nil
}

// FailFromCallback attaches a failure reason reported by the client-side
// checkout's error callback. It does not force FAILURE; webhooks remain
// authoritative for the terminal status.
func (s *CheckoutService) FailFromCallback(ctx context.Context, paymentID, reason string) (*domain.Payment, error) {
	payment, err := s.findPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	payment.SetFailureReason(reason)
	note, _ := json.Marshal(map[string]string{"reason": reason})
	payment.AppendNote(noteProviderError, note)

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, application.NewInternalError(err)
	}
	return payment, nil
}

// FindPayment loads a payment by id for the query endpoint.
func (s *CheckoutService) FindPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.findPayment(ctx, id)
}

func (s *CheckoutService) findPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
			return nil, application.NewPaymentNotFoundError(id)
		}
		return nil, application.NewInternalError(err)
	}
	return payment, nil
}

// handleProviderError annotates the payment with the provider's business
// error and wraps it; transport and contract errors pass through untouched.
func (s *CheckoutService) handleProviderError(ctx context.Context, payment *domain.Payment, err error) error {
	if _, ok := adyen.IsServiceException(err); ok {
		s.reconciler.AnnotateProviderError(ctx, payment, err)
		return application.NewProviderError(err)
	}
	if _, ok := adyen.IsGatewayError(err); ok {
		s.reconciler.AnnotateProviderError(ctx, payment, err)
		return application.NewProviderError(err)
	}
	return err
}

// storedPaymentData digs the paymentData blob out of the last stored
// provider response.
func storedPaymentData(payment *domain.Payment) string {
	if len(payment.RawResponse) == 0 {
		return ""
	}
	var doc map[string]any
	if err := json.Unmarshal(payment.RawResponse, &doc); err != nil {
		return ""
	}
	data, _ := adyen.Object(doc).String("paymentData")
	return data
}
