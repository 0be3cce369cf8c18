package handlers_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/application/services"
	"github.com/payloop/adyen-gateway/internal/domain"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest/handlers"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest/middleware"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
}

func newMemRepo() *memRepo {
	return &memRepo{payments: make(map[string]*domain.Payment)}
}

func (r *memRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = p
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.payments[id]; ok {
		return p, nil
	}
	return nil, domain.NewPaymentNotFoundError(id)
}

func (r *memRepo) FindByMerchantReference(ctx context.Context, ref string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.MerchantReference == ref {
			return p, nil
		}
	}
	return nil, domain.NewPaymentNotFoundError(ref)
}

func (r *memRepo) Update(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; !ok {
		return domain.NewPaymentNotFoundError(p.ID)
	}
	r.payments[p.ID] = p
	return nil
}

func (r *memRepo) FindOpenOlderThan(ctx context.Context, age time.Duration, limit int) ([]*domain.Payment, error) {
	return nil, nil
}

type stubClient struct {
	PaymentsFn       func(ctx context.Context, req *adyen.PaymentRequest) (*adyen.PaymentResponse, error)
	PaymentDetailsFn func(ctx context.Context, req *adyen.PaymentDetailsRequest) (*adyen.PaymentDetailsResponse, error)
	PaymentMethodsFn func(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error)
}

func (c *stubClient) Payments(ctx context.Context, req *adyen.PaymentRequest) (*adyen.PaymentResponse, error) {
	if c.PaymentsFn != nil {
		return c.PaymentsFn(ctx, req)
	}
	return nil, fmt.Errorf("Payments not scripted")
}

func (c *stubClient) PaymentDetails(ctx context.Context, req *adyen.PaymentDetailsRequest) (*adyen.PaymentDetailsResponse, error) {
	if c.PaymentDetailsFn != nil {
		return c.PaymentDetailsFn(ctx, req)
	}
	return nil, fmt.Errorf("PaymentDetails not scripted")
}

func (c *stubClient) PaymentMethods(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error) {
	if c.PaymentMethodsFn != nil {
		return c.PaymentMethodsFn(ctx, req)
	}
	return nil, fmt.Errorf("PaymentMethods not scripted")
}

func (c *stubClient) PaymentSession(ctx context.Context, req *adyen.PaymentSessionRequest) (*adyen.PaymentSessionResponse, error) {
	return nil, fmt.Errorf("PaymentSession not scripted")
}

func (c *stubClient) MerchantAccount() string { return "TestMerchant" }

type memStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemStore() *memStore { return &memStore{seen: make(map[string]bool)} }

func (s *memStore) MarkProcessed(ctx context.Context, psp, event string, success bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%t", psp, event, success)
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

// memTx hands the service the same in-memory repo and store; handler tests
// do not exercise rollback.
type memTx struct {
	repo  *memRepo
	store *memStore
}

func (m *memTx) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, payments application.PaymentRepository, notifications application.NotificationStore) error,
) error {
	return fn(ctx, m.repo, m.store)
}

type fixture struct {
	repo   *memRepo
	client *stubClient
	signer *rest.TokenSigner
	mux    *http.ServeMux
}

func newFixture(t *testing.T, webhookUser, webhookPass string) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := newMemRepo()
	client := &stubClient{}
	reconciler := services.NewReconcileService(repo, logger)
	checkout := services.NewCheckoutService(repo, client, reconciler, logger)
	notifications := services.NewNotificationService(repo, &memTx{repo: repo, store: newMemStore()}, logger)
	methods := services.NewPaymentMethodsService(client, logger)
	signer := rest.NewTokenSigner("test-secret")

	h := handlers.NewHandlers(checkout, notifications, methods, signer, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, middleware.BasicAuth(webhookUser, webhookPass, logger))

	return &fixture{repo: repo, client: client, signer: signer, mux: mux}
}

func (f *fixture) seedPayment(t *testing.T) *domain.Payment {
	t.Helper()
	money, err := domain.NewMoney(1000, "EUR")
	require.NoError(t, err)

	payment, err := domain.NewPayment("pay-1", "order-42", money, "https://shop.example/done")
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(context.Background(), payment))
	return payment
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}
