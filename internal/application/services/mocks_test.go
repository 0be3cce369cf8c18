package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockPaymentRepository is an in-memory PaymentRepository. Behavior can be
// overridden per test through the Fn fields.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	UpdateCount int

	CreateFn                  func(ctx context.Context, payment *domain.Payment) error
	FindByIDFn                func(ctx context.Context, id string) (*domain.Payment, error)
	FindByMerchantReferenceFn func(ctx context.Context, ref string) (*domain.Payment, error)
	UpdateFn                  func(ctx context.Context, payment *domain.Payment) error
	FindOpenOlderThanFn       func(ctx context.Context, age time.Duration, limit int) ([]*domain.Payment, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.NewPaymentNotFoundError(id)
}

func (m *MockPaymentRepository) FindByMerchantReference(ctx context.Context, ref string) (*domain.Payment, error) {
	if m.FindByMerchantReferenceFn != nil {
		return m.FindByMerchantReferenceFn(ctx, ref)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.MerchantReference == ref {
			return p, nil
		}
	}
	return nil, domain.NewPaymentNotFoundError(ref)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	m.UpdateCount++
	m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; !ok {
		return domain.NewPaymentNotFoundError(payment.ID)
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) FindOpenOlderThan(ctx context.Context, age time.Duration, limit int) ([]*domain.Payment, error) {
	if m.FindOpenOlderThanFn != nil {
		return m.FindOpenOlderThanFn(ctx, age, limit)
	}
	return nil, nil
}

// MockCheckoutClient is a CheckoutClient whose calls are scripted per test.
type MockCheckoutClient struct {
	PaymentsCalls       int
	PaymentMethodsCalls int

	PaymentsFn       func(ctx context.Context, req *adyen.PaymentRequest) (*adyen.PaymentResponse, error)
	PaymentDetailsFn func(ctx context.Context, req *adyen.PaymentDetailsRequest) (*adyen.PaymentDetailsResponse, error)
	PaymentMethodsFn func(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error)
	PaymentSessionFn func(ctx context.Context, req *adyen.PaymentSessionRequest) (*adyen.PaymentSessionResponse, error)
}

func (m *MockCheckoutClient) Payments(ctx context.Context, req *adyen.PaymentRequest) (*adyen.PaymentResponse, error) {
	m.PaymentsCalls++
	if m.PaymentsFn != nil {
		return m.PaymentsFn(ctx, req)
	}
	return nil, fmt.Errorf("Payments not scripted")
}

func (m *MockCheckoutClient) PaymentDetails(ctx context.Context, req *adyen.PaymentDetailsRequest) (*adyen.PaymentDetailsResponse, error) {
	if m.PaymentDetailsFn != nil {
		return m.PaymentDetailsFn(ctx, req)
	}
	return nil, fmt.Errorf("PaymentDetails not scripted")
}

func (m *MockCheckoutClient) PaymentMethods(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error) {
	m.PaymentMethodsCalls++
	if m.PaymentMethodsFn != nil {
		return m.PaymentMethodsFn(ctx, req)
	}
	return nil, fmt.Errorf("PaymentMethods not scripted")
}

func (m *MockCheckoutClient) PaymentSession(ctx context.Context, req *adyen.PaymentSessionRequest) (*adyen.PaymentSessionResponse, error) {
	if m.PaymentSessionFn != nil {
		return m.PaymentSessionFn(ctx, req)
	}
	return nil, fmt.Errorf("PaymentSession not scripted")
}

func (m *MockCheckoutClient) MerchantAccount() string {
	return "TestMerchant"
}

// MockNotificationStore is an in-memory dedup store keyed by the
// (pspReference, eventCode, success) triple.
type MockNotificationStore struct {
	mu   sync.Mutex
	seen map[string]bool

	MarkProcessedFn func(ctx context.Context, pspReference, eventCode string, success bool) (bool, error)
}

func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{seen: make(map[string]bool)}
}

func (m *MockNotificationStore) MarkProcessed(ctx context.Context, pspReference, eventCode string, success bool) (bool, error) {
	if m.MarkProcessedFn != nil {
		return m.MarkProcessedFn(ctx, pspReference, eventCode, success)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%t", pspReference, eventCode, success)
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *MockNotificationStore) snapshot() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(map[string]bool, len(m.seen))
	for k, v := range m.seen {
		copied[k] = v
	}
	return copied
}

func (m *MockNotificationStore) restore(seen map[string]bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = seen
}

// MockTransactionCoordinator hands fn the test's in-memory repositories.
// The one transactional behavior that matters to callers is simulated: a
// failing fn rolls the dedup store back to its pre-transaction state.
type MockTransactionCoordinator struct {
	Payments *MockPaymentRepository
	Store    *MockNotificationStore
}

func (m *MockTransactionCoordinator) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, payments application.PaymentRepository, notifications application.NotificationStore) error,
) error {
	before := m.Store.snapshot()
	if err := fn(ctx, m.Payments, m.Store); err != nil {
		m.Store.restore(before)
		return err
	}
	return nil
}
