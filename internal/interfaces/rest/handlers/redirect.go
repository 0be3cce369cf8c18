package handlers

import (
	"net/http"

	"github.com/payloop/adyen-gateway/internal/interfaces/rest"
)

// Return handles the shopper coming back from the issuer after a redirect
// flow: reconcile the outcome with the provider, then send the shopper on
// to the host's return URL.
func (h *Handlers) Return(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("payment_id")
	redirectResult := r.URL.Query().Get("redirectResult")

	// Some redirect methods append a sessionId; reconciliation only needs
	// redirectResult, so record it for traceability and move on.
	if sessionID := r.URL.Query().Get("sessionId"); sessionID != "" {
		h.logger.Info("shopper returned with session",
			"payment_id", paymentID,
			"session_id", sessionID,
		)
	}

	returnURL, err := h.checkout.HandleReturn(r.Context(), paymentID, redirectResult)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

// Redirect is the token-protected completion callback the client-side
// checkout fires after the shopper finishes the widget flow.
func (h *Handlers) Redirect(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("payment_id")
	if !h.verifyToken(w, r, paymentID) {
		return
	}

	payment, err := h.checkout.FindPayment(r.Context(), paymentID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	http.Redirect(w, r, payment.ReturnURL, http.StatusSeeOther)
}

// Error is the token-protected error callback: it attaches the widget's
// failure reason to the payment, then redirects. The terminal status stays
// with the webhook path.
func (h *Handlers) Error(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("payment_id")
	if !h.verifyToken(w, r, paymentID) {
		return
	}

	reason := r.URL.Query().Get("reason")
	if reason == "" {
		reason = "payment failed in checkout"
	}

	payment, err := h.checkout.FailFromCallback(r.Context(), paymentID, reason)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	http.Redirect(w, r, payment.ReturnURL, http.StatusSeeOther)
}

func (h *Handlers) verifyToken(w http.ResponseWriter, r *http.Request, paymentID string) bool {
	token := r.URL.Query().Get("token")
	if !h.signer.Verify(paymentID, token) {
		h.logger.Warn("rejected callback with bad token",
			"payment_id", paymentID,
			"remote", r.RemoteAddr,
		)
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}
