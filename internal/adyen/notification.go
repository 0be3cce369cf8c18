package adyen

import (
	"time"
)

// NotificationItem is one asynchronous status-change event delivered by the
// provider via webhook. Each item is processed independently; reprocessing
// a duplicate (pspReference, eventCode, success) must not regress payment
// status.
type NotificationItem struct {
	Raw Object

	Amount              *Amount
	EventCode           EventCode
	EventDate           time.Time
	MerchantAccountCode string
	MerchantReference   string
	Operations          []string
	PaymentMethod       string
	PSPReference        string
	Reason              string
	Success             bool
}

// NotificationRequest is the webhook envelope: an ordered batch of items.
type NotificationRequest struct {
	Raw Object

	Live  bool
	Items []NotificationItem
}

// ParseNotificationRequest validates and types a webhook envelope. A body
// that fails the schema is rejected whole; individual item payload quirks
// (unparseable amount or date) degrade to zero values instead, since one
// odd item must not block the batch.
func ParseNotificationRequest(doc Object) (*NotificationRequest, error) {
	if err := validateSchema(schemaNotificationRequest, doc); err != nil {
		return nil, err
	}

	req := &NotificationRequest{Raw: doc}
	req.Live = looseBool(doc, "live")

	wrappers, _ := doc.Objects("notificationItems")
	for _, w := range wrappers {
		item, ok := w.Object("NotificationRequestItem")
		if !ok {
			continue
		}
		req.Items = append(req.Items, parseNotificationItem(item))
	}

	return req, nil
}

func parseNotificationItem(o Object) NotificationItem {
	item := NotificationItem{Raw: o}

	if v, ok := o.String("eventCode"); ok {
		item.EventCode = EventCode(v)
	}
	item.MerchantAccountCode, _ = o.String("merchantAccountCode")
	item.MerchantReference, _ = o.String("merchantReference")
	item.PaymentMethod, _ = o.String("paymentMethod")
	item.PSPReference, _ = o.String("pspReference")
	item.Reason, _ = o.String("reason")
	item.Success = looseBool(o, "success")

	if amount, ok := o.Object("amount"); ok {
		if a, err := ParseAmount(amount); err == nil {
			item.Amount = a
		}
	}

	if v, ok := o.String("eventDate"); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			item.EventDate = t
		}
	}

	if ops, ok := o.Array("operations"); ok {
		for _, op := range ops {
			if s, ok := op.(string); ok {
				item.Operations = append(item.Operations, s)
			}
		}
	}

	return item
}

// looseBool reads a flag the provider serializes either as a bool or as the
// strings "true"/"false".
func looseBool(o Object, key string) bool {
	if b, ok := o.Bool(key); ok {
		return b
	}
	s, _ := o.String(key)
	return s == "true"
}
