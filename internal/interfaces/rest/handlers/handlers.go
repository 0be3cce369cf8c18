package handlers

import (
	"log/slog"
	"net/http"

	"github.com/payloop/adyen-gateway/internal/application/services"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest"
)

// Handlers wires the REST boundary to the application services.
type Handlers struct {
	checkout      *services.CheckoutService
	notifications *services.NotificationService
	methods       *services.PaymentMethodsService
	signer        *rest.TokenSigner
	logger        *slog.Logger
}

func NewHandlers(
	checkout *services.CheckoutService,
	notifications *services.NotificationService,
	methods *services.PaymentMethodsService,
	signer *rest.TokenSigner,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		checkout:      checkout,
		notifications: notifications,
		methods:       methods,
		signer:        signer,
		logger:        logger,
	}
}

// RegisterRoutes mounts every endpoint on the mux. The notifications
// endpoint carries its own Basic auth; everything else is open to the
// front end.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux, webhookAuth func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /payments", h.CreatePayment)
	mux.HandleFunc("GET /payments/{payment_id}", h.GetPayment)
	mux.HandleFunc("POST /payments/{payment_id}", h.SubmitPaymentMethod)
	mux.HandleFunc("POST /payments/details/{payment_id}", h.SubmitDetails)
	mux.HandleFunc("GET /paymentmethods", h.ListPaymentMethods)

	mux.Handle("POST /notifications", webhookAuth(http.HandlerFunc(h.Notifications)))

	mux.HandleFunc("GET /return/{payment_id}", h.Return)
	mux.HandleFunc("GET /redirect/{payment_id}", h.Redirect)
	mux.HandleFunc("GET /error/{payment_id}", h.Error)
}
