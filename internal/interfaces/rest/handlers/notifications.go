package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest"
)

// notificationAck is the provider's fixed acknowledgement contract.
var notificationAck = map[string]string{"notificationResponse": "[accepted]"}

// Notifications handles the provider's webhook. Per-item failures are
// swallowed after logging so the provider never re-queues a batch for a
// single bad item; only a malformed envelope is rejected outright.
func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		h.logger.Error("unparseable notification envelope", "error", err)
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	req, err := adyen.ParseNotificationRequest(adyen.Object(doc))
	if err != nil {
		h.logger.Error("notification envelope failed schema validation", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("processing notification batch",
		"live", req.Live,
		"items", len(req.Items),
	)

	h.notifications.ProcessBatch(r.Context(), req)

	rest.WriteJSON(w, http.StatusOK, notificationAck)
}
