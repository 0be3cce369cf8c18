package handlers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/application/services"
	"github.com/payloop/adyen-gateway/internal/domain"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest"
)

type createPaymentRequest struct {
	MerchantReference string `json:"merchantReference"`
	Amount            struct {
		Currency string `json:"currency"`
		Value    int64  `json:"value"`
	} `json:"amount"`
	ReturnURL string `json:"returnUrl"`
}

type paymentDTO struct {
	ID                string `json:"id"`
	MerchantReference string `json:"merchantReference"`
	Status            string `json:"status"`
	Method            string `json:"method,omitempty"`
	PSPReference      string `json:"pspReference,omitempty"`
	FailureReason     string `json:"failureReason,omitempty"`
	RedirectToken     string `json:"redirectToken,omitempty"`
}

// checkoutResult is the fixed reply shape of the payment and
// payment-details endpoints.
type checkoutResult struct {
	ResultCode    string                   `json:"resultCode"`
	Action        *adyen.ActionInformation `json:"action,omitempty"`
	RefusalReason string                   `json:"refusalReason,omitempty"`
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	payment, err := h.checkout.CreatePayment(r.Context(), services.CreatePaymentCommand{
		MerchantReference: req.MerchantReference,
		AmountMinor:       req.Amount.Value,
		Currency:          req.Amount.Currency,
		ReturnURL:         req.ReturnURL,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, h.toDTO(payment))
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.checkout.FindPayment(r.Context(), r.PathValue("payment_id"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, h.toDTO(payment))
}

// SubmitPaymentMethod forwards the drop-in's payment-method state blob to
// the provider and returns the result plus any follow-up action.
func (h *Handlers) SubmitPaymentMethod(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("payment_id")

	var details adyen.PaymentMethodDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	resp, _, err := h.checkout.SubmitPaymentMethod(r.Context(), services.SubmitPaymentMethodCommand{
		PaymentID:     paymentID,
		PaymentMethod: details,
		ShopperIP:     shopperIP(r),
		Origin:        r.Header.Get("Origin"),
		ReturnURL:     h.returnURL(r, paymentID),
		BrowserInfo: &adyen.BrowserInfo{
			AcceptHeader: r.Header.Get("Accept"),
			UserAgent:    r.UserAgent(),
		},
	})
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

func (h *Handlers) toDTO(p *domain.Payment) paymentDTO {
	return paymentDTO{
		ID:                p.ID,
		MerchantReference: p.MerchantReference,
		Status:            string(p.Status),
		Method:            p.Method,
		PSPReference:      p.PSPReference,
		FailureReason:     p.FailureReason,
		RedirectToken:     h.signer.Sign(p.ID),
	}
}

// shopperIP strips the port from the peer address; RemoteAddr is host:port
// and the provider expects a bare IP.
func shopperIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// returnURL is where the provider sends the shopper back after a redirect
// flow; it lands on this service's own return endpoint.
func (h *Handlers) returnURL(r *http.Request, paymentID string) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/return/%s", scheme, r.Host, paymentID)
}
