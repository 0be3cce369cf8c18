package adyen

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a request field that fails the provider's
// constraints before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports missing required configuration, e.g. a live
// environment without a URL prefix. Fatal, not retryable.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// ProtocolError reports a response that is not a JSON object, or a
// transport-level failure. The raw body is kept for diagnostics.
type ProtocolError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed provider response (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("malformed provider response (status %d): %s", e.StatusCode, e.Body)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// GatewayError is the provider's legacy `{"error": {...}}` error shape.
type GatewayError struct {
	Code         string
	Message      string
	RequestedURI string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %s", e.Code, e.Message)
}

// ServiceException is the provider's structured business error shape:
// `{"status": ..., "errorCode": ..., "errorType": ..., "message": ...}`.
type ServiceException struct {
	Status    int
	ErrorCode string
	ErrorType string
	Message   string
}

func (e *ServiceException) Error() string {
	return fmt.Sprintf("service exception [%s/%s]: %s (status: %d)", e.ErrorType, e.ErrorCode, e.Message, e.Status)
}

// SchemaValidationError reports inbound JSON that does not satisfy the
// response contract, carrying the violating paths.
type SchemaValidationError struct {
	Schema   string
	Failures []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("response does not match %s schema: %s", e.Schema, strings.Join(e.Failures, "; "))
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func IsServiceException(err error) (*ServiceException, bool) {
	var se *ServiceException
	ok := errors.As(err, &se)
	return se, ok
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	ok := errors.As(err, &ge)
	return ge, ok
}
