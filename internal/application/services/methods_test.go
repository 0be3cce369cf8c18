package services

import (
	"context"
	"testing"
	"time"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func methodsClient(resp *adyen.PaymentMethodsResponse, err error) *MockCheckoutClient {
	return &MockCheckoutClient{
		PaymentMethodsFn: func(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error) {
			return resp, err
		},
	}
}

func idealListing() *adyen.PaymentMethodsResponse {
	return &adyen.PaymentMethodsResponse{
		Raw:            adyen.Object{"paymentMethods": []any{}},
		PaymentMethods: []adyen.PaymentMethod{{Type: "ideal", Name: "iDEAL"}},
	}
}

func TestPaymentMethodsService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the request from the query", func(t *testing.T) {
		var sent *adyen.PaymentMethodsRequest
		client := &MockCheckoutClient{
			PaymentMethodsFn: func(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error) {
				sent = req
				return idealListing(), nil
			},
		}
		svc := NewPaymentMethodsService(client, discardLogger())

		_, err := svc.List(ctx, "NL", "EUR", 1000)

		require.NoError(t, err)
		require.NotNil(t, sent)
		assert.Equal(t, "TestMerchant", sent.MerchantAccount)
		assert.Equal(t, adyen.ChannelWeb, sent.Channel)
		assert.Equal(t, "NL", sent.CountryCode)
		require.NotNil(t, sent.Amount)
		assert.Equal(t, int64(1000), sent.Amount.Value)
	})

	t.Run("empty currency omits the amount", func(t *testing.T) {
		var sent *adyen.PaymentMethodsRequest
		client := &MockCheckoutClient{
			PaymentMethodsFn: func(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error) {
				sent = req
				return idealListing(), nil
			},
		}
		svc := NewPaymentMethodsService(client, discardLogger())

		_, err := svc.List(ctx, "", "", 0)

		require.NoError(t, err)
		assert.Nil(t, sent.Amount)
	})

	t.Run("serves the cache inside the TTL", func(t *testing.T) {
		client := methodsClient(idealListing(), nil)
		svc := NewPaymentMethodsService(client, discardLogger())

		_, err := svc.List(ctx, "NL", "EUR", 1000)
		require.NoError(t, err)
		_, err = svc.List(ctx, "NL", "EUR", 1000)
		require.NoError(t, err)

		assert.Equal(t, 1, client.PaymentMethodsCalls)
	})

	t.Run("different query keys do not share cache entries", func(t *testing.T) {
		client := methodsClient(idealListing(), nil)
		svc := NewPaymentMethodsService(client, discardLogger())

		_, err := svc.List(ctx, "NL", "EUR", 1000)
		require.NoError(t, err)
		_, err = svc.List(ctx, "DE", "EUR", 1000)
		require.NoError(t, err)

		assert.Equal(t, 2, client.PaymentMethodsCalls)
	})

	t.Run("refetches after the TTL expires", func(t *testing.T) {
		client := methodsClient(idealListing(), nil)
		svc := NewPaymentMethodsService(client, discardLogger())

		current := time.Now()
		svc.now = func() time.Time { return current }

		_, err := svc.List(ctx, "NL", "EUR", 1000)
		require.NoError(t, err)

		current = current.Add(methodsCacheTTL + time.Minute)
		_, err = svc.List(ctx, "NL", "EUR", 1000)
		require.NoError(t, err)

		assert.Equal(t, 2, client.PaymentMethodsCalls)
	})

	t.Run("serves a stale listing when the refresh fails", func(t *testing.T) {
		listing := idealListing()
		calls := 0
		client := &MockCheckoutClient{
			PaymentMethodsFn: func(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error) {
				calls++
				if calls == 1 {
					return listing, nil
				}
				return nil, &adyen.ProtocolError{StatusCode: 503}
			},
		}
		svc := NewPaymentMethodsService(client, discardLogger())

		current := time.Now()
		svc.now = func() time.Time { return current }

		_, err := svc.List(ctx, "NL", "EUR", 1000)
		require.NoError(t, err)

		current = current.Add(methodsCacheTTL + time.Minute)
		resp, err := svc.List(ctx, "NL", "EUR", 1000)

		require.NoError(t, err)
		assert.Same(t, listing, resp)
	})

	t.Run("a cold cache surfaces the provider error", func(t *testing.T) {
		client := methodsClient(nil, &adyen.ProtocolError{StatusCode: 503})
		svc := NewPaymentMethodsService(client, discardLogger())

		_, err := svc.List(ctx, "NL", "EUR", 1000)

		var protoErr *adyen.ProtocolError
		assert.ErrorAs(t, err, &protoErr)
	})
}
