package application

import (
	"context"
	"time"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/domain"
)

// CheckoutClient is the port for the provider's checkout API.
type CheckoutClient interface {
	Payments(ctx context.Context, req *adyen.PaymentRequest) (*adyen.PaymentResponse, error)
	PaymentDetails(ctx context.Context, req *adyen.PaymentDetailsRequest) (*adyen.PaymentDetailsResponse, error)
	PaymentMethods(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error)
	PaymentSession(ctx context.Context, req *adyen.PaymentSessionRequest) (*adyen.PaymentSessionResponse, error)
	MerchantAccount() string
}

// PaymentRepository is the port for payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByMerchantReference(ctx context.Context, ref string) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	// FindOpenOlderThan lists OPEN payments whose last update is older than
	// the grace period, for the background status poller.
	FindOpenOlderThan(ctx context.Context, age time.Duration, limit int) ([]*domain.Payment, error)
}

// NotificationStore is the port for webhook deduplication.
type NotificationStore interface {
	// MarkProcessed records a (pspReference, eventCode, success) triple and
	// reports whether it was seen for the first time. A duplicate delivery
	// returns false.
	MarkProcessed(ctx context.Context, pspReference string, eventCode string, success bool) (bool, error)
}

// TransactionCoordinator runs a unit of work whose repository writes must
// commit atomically. fn receives transaction-scoped repositories; an error
// from fn rolls every write back.
type TransactionCoordinator interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, payments PaymentRepository, notifications NotificationStore) error) error
}
