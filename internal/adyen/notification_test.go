package adyen_test

import (
	"errors"
	"testing"
	"time"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotificationRequest(t *testing.T) {
	t.Run("parses a full authorisation item", func(t *testing.T) {
		doc := decode(t, `{
			"live": "false",
			"notificationItems": [
				{
					"NotificationRequestItem": {
						"amount": {"currency": "EUR", "value": 1000},
						"eventCode": "AUTHORISATION",
						"eventDate": "2021-01-01T01:00:00+01:00",
						"merchantAccountCode": "TestMerchant",
						"merchantReference": "order-42",
						"operations": ["CANCEL", "CAPTURE", "REFUND"],
						"paymentMethod": "ideal",
						"pspReference": "883580976999434D",
						"reason": "",
						"success": "true"
					}
				}
			]
		}`)

		req, err := adyen.ParseNotificationRequest(doc)

		require.NoError(t, err)
		assert.False(t, req.Live)
		require.Len(t, req.Items, 1)

		item := req.Items[0]
		assert.Equal(t, adyen.EventAuthorisation, item.EventCode)
		assert.Equal(t, "TestMerchant", item.MerchantAccountCode)
		assert.Equal(t, "order-42", item.MerchantReference)
		assert.Equal(t, "883580976999434D", item.PSPReference)
		assert.Equal(t, "ideal", item.PaymentMethod)
		assert.True(t, item.Success)
		assert.Equal(t, []string{"CANCEL", "CAPTURE", "REFUND"}, item.Operations)

		require.NotNil(t, item.Amount)
		assert.Equal(t, int64(1000), item.Amount.Value)

		expected, _ := time.Parse(time.RFC3339, "2021-01-01T01:00:00+01:00")
		assert.True(t, item.EventDate.Equal(expected))
	})

	t.Run("reads success and live as real booleans too", func(t *testing.T) {
		doc := decode(t, `{
			"live": true,
			"notificationItems": [
				{
					"NotificationRequestItem": {
						"eventCode": "AUTHORISATION",
						"merchantAccountCode": "TestMerchant",
						"merchantReference": "order-42",
						"pspReference": "883580976999434D",
						"success": false
					}
				}
			]
		}`)

		req, err := adyen.ParseNotificationRequest(doc)

		require.NoError(t, err)
		assert.True(t, req.Live)
		require.Len(t, req.Items, 1)
		assert.False(t, req.Items[0].Success)
	})

	t.Run("rejects an envelope without notificationItems", func(t *testing.T) {
		_, err := adyen.ParseNotificationRequest(decode(t, `{"live": "false"}`))

		var schemaErr *adyen.SchemaValidationError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "notification-request", schemaErr.Schema)
	})

	t.Run("rejects an item missing required fields", func(t *testing.T) {
		_, err := adyen.ParseNotificationRequest(decode(t, `{
			"live": "false",
			"notificationItems": [
				{"NotificationRequestItem": {"eventCode": "AUTHORISATION"}}
			]
		}`))

		var schemaErr *adyen.SchemaValidationError
		assert.True(t, errors.As(err, &schemaErr))
	})

	t.Run("item payload quirks degrade to zero values", func(t *testing.T) {
		doc := decode(t, `{
			"live": "false",
			"notificationItems": [
				{
					"NotificationRequestItem": {
						"amount": {"currency": "EURO", "value": 1000},
						"eventCode": "REPORT_AVAILABLE",
						"eventDate": "not-a-date",
						"merchantAccountCode": "TestMerchant",
						"merchantReference": "order-42",
						"pspReference": "883580976999434D",
						"success": "true"
					}
				}
			]
		}`)

		req, err := adyen.ParseNotificationRequest(doc)

		require.NoError(t, err)
		require.Len(t, req.Items, 1)
		assert.Nil(t, req.Items[0].Amount)
		assert.True(t, req.Items[0].EventDate.IsZero())
	})

	t.Run("retains each item's raw object", func(t *testing.T) {
		doc := decode(t, `{
			"live": "false",
			"notificationItems": [
				{
					"NotificationRequestItem": {
						"eventCode": "AUTHORISATION",
						"merchantAccountCode": "TestMerchant",
						"merchantReference": "order-42",
						"pspReference": "883580976999434D",
						"success": "true",
						"additionalData": {"hmacSignature": "sig"}
					}
				}
			]
		}`)

		req, err := adyen.ParseNotificationRequest(doc)

		require.NoError(t, err)
		extra, ok := req.Items[0].Raw.Object("additionalData")
		require.True(t, ok)
		sig, _ := extra.String("hmacSignature")
		assert.Equal(t, "sig", sig)
	})
}
