package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
)

// methodsCacheTTL caps how long a payment-methods listing is reused.
const methodsCacheTTL = 24 * time.Hour

type cachedMethods struct {
	resp      *adyen.PaymentMethodsResponse
	fetchedAt time.Time
}

// PaymentMethodsService lists available payment methods, caching listings
// per country/currency since the provider's catalog changes rarely.
type PaymentMethodsService struct {
	client application.CheckoutClient
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]cachedMethods
	ttl   time.Duration
	now   func() time.Time
}

func NewPaymentMethodsService(client application.CheckoutClient, logger *slog.Logger) *PaymentMethodsService {
	return &PaymentMethodsService{
		client: client,
		logger: logger,
		cache:  make(map[string]cachedMethods),
		ttl:    methodsCacheTTL,
		now:    time.Now,
	}
}

// List returns the provider's payment methods for a country and amount.
// countryCode and currency may be empty for an unfiltered listing.
func (s *PaymentMethodsService) List(ctx context.Context, countryCode, currency string, amountMinor int64) (*adyen.PaymentMethodsResponse, error) {
	key := fmt.Sprintf("%s|%s|%d", countryCode, currency, amountMinor)

	s.mu.Lock()
	entry, ok := s.cache[key]
	s.mu.Unlock()
	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return entry.resp, nil
	}

	req, err := adyen.NewPaymentMethodsRequest(s.client.MerchantAccount())
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	req.Channel = adyen.ChannelWeb
	req.CountryCode = countryCode
	if currency != "" {
		amount, err := adyen.NewAmount(currency, amountMinor)
		if err != nil {
			return nil, application.NewInvalidInputError(err)
		}
		req.Amount = amount
	}

	resp, err := s.client.PaymentMethods(ctx, req)
	if err != nil {
		// A stale listing beats no listing when the provider is down.
		if ok {
			s.logger.Warn("payment methods refresh failed, serving stale cache",
				"key", key,
				"error", err,
			)
			return entry.resp, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = cachedMethods{resp: resp, fetchedAt: s.now()}
	s.mu.Unlock()

	return resp, nil
}
