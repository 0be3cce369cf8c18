package adyen

import "github.com/payloop/adyen-gateway/internal/domain"

// ResultCode is the provider's enumerated outcome of a payment attempt.
type ResultCode string

const (
	ResultAuthorised       ResultCode = "Authorised"
	ResultCancelled        ResultCode = "Cancelled"
	ResultChallengeShopper ResultCode = "ChallengeShopper"
	ResultError            ResultCode = "Error"
	ResultIdentifyShopper  ResultCode = "IdentifyShopper"
	ResultPending          ResultCode = "Pending"
	ResultPresentToShopper ResultCode = "PresentToShopper"
	ResultReceived         ResultCode = "Received"
	ResultRedirectShopper  ResultCode = "RedirectShopper"
	ResultRefused          ResultCode = "Refused"
)

// Status maps the result code onto the payment status vocabulary. Total for
// any string input: unmapped codes return ("", false), meaning no status
// change, never an error.
func (r ResultCode) Status() (domain.PaymentStatus, bool) {
	switch r {
	case ResultAuthorised:
		return domain.StatusSuccess, true
	case ResultCancelled:
		return domain.StatusCancelled, true
	case ResultError, ResultRefused:
		return domain.StatusFailure, true
	case ResultPending, ResultReceived, ResultRedirectShopper:
		return domain.StatusOpen, true
	default:
		return "", false
	}
}

// EventCode is one webhook notification event type.
type EventCode string

const (
	EventAuthorisation    EventCode = "AUTHORISATION"
	EventCancellation     EventCode = "CANCELLATION"
	EventCapture          EventCode = "CAPTURE"
	EventCaptureFailed    EventCode = "CAPTURE_FAILED"
	EventOrderClosed      EventCode = "ORDER_CLOSED"
	EventOrderOpened      EventCode = "ORDER_OPENED"
	EventPaidoutReversed  EventCode = "PAIDOUT_REVERSED"
	EventPayoutThirdparty EventCode = "PAYOUT_THIRDPARTY"
	EventRefund           EventCode = "REFUND"
	EventRefundFailed     EventCode = "REFUND_FAILED"
	EventReportAvailable  EventCode = "REPORT_AVAILABLE"
	EventTechnicalCancel  EventCode = "TECHNICAL_CANCEL"
)

// DrivesStatus reports whether this event type may move a payment's status.
// Only AUTHORISATION does; every other event is recorded without touching
// the state machine.
func (e EventCode) DrivesStatus() bool {
	return e == EventAuthorisation
}
