package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest"
)

type detailsRequest struct {
	Details     adyen.Object `json:"details"`
	PaymentData string       `json:"paymentData"`
}

// SubmitDetails resumes a pending redirect or challenge exchange.
func (h *Handlers) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("payment_id")

	var req detailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	resp, _, err := h.checkout.SubmitDetails(r.Context(), paymentID, req.Details, req.PaymentData)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, checkoutResult{
		ResultCode:    string(resp.ResultCode),
		Action:        resp.Action,
		RefusalReason: resp.RefusalReason,
	})
}

// ListPaymentMethods serves the drop-in's method catalog, cached per
// country and amount.
func (h *Handlers) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := q.Get("country")
	currency := q.Get("currency")

	var amount int64
	if raw := q.Get("amount"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
			return
		}
		amount = parsed
	}

	resp, err := h.methods.List(r.Context(), country, currency, amount)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, resp.Raw)
}
