package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/domain"
)

// ErrorCategory represents the nature of an error for logging and for the
// caller's retry decision. The client itself never retries.
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryConfiguration  ErrorCategory = "CONFIGURATION"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for logging and retry purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	// Context errors are transient network/timeout issues
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	var confErr *adyen.ConfigurationError
	if errors.As(err, &confErr) {
		return CategoryConfiguration
	}

	var valErr *adyen.ValidationError
	if errors.As(err, &valErr) {
		return CategoryClientError
	}

	var schemaErr *adyen.SchemaValidationError
	if errors.As(err, &schemaErr) {
		return CategoryInfrastructure
	}

	var protoErr *adyen.ProtocolError
	if errors.As(err, &protoErr) {
		return CategoryTransient
	}

	// Provider-reported business errors
	if se, ok := adyen.IsServiceException(err); ok {
		if se.Status >= 500 {
			return CategoryTransient
		}
		return CategoryBusinessRule
	}
	if _, ok := adyen.IsGatewayError(err); ok {
		return CategoryBusinessRule
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodePaymentNotFound,
			domain.ErrCodeInvalidAmount,
			domain.ErrCodeMissingRequiredField:
			return CategoryClientError
		default:
			return CategoryBusinessRule
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput, ErrCodePaymentNotFound:
			return CategoryClientError
		case ErrCodeProviderError:
			return CategoryBusinessRule
		default:
			return CategoryInfrastructure
		}
	}

	// Default: transient (safe fallback)
	return CategoryTransient
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var valErr *adyen.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest
	}

	var confErr *adyen.ConfigurationError
	if errors.As(err, &confErr) {
		return http.StatusInternalServerError
	}

	var schemaErr *adyen.SchemaValidationError
	if errors.As(err, &schemaErr) {
		return http.StatusBadGateway
	}

	var protoErr *adyen.ProtocolError
	if errors.As(err, &protoErr) {
		return http.StatusBadGateway
	}

	if se, ok := adyen.IsServiceException(err); ok {
		if se.Status >= 400 && se.Status < 500 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	}
	if _, ok := adyen.IsGatewayError(err); ok {
		return http.StatusBadGateway
	}

	switch {
	case domain.IsErrorCode(err, domain.ErrCodePaymentNotFound):
		return http.StatusNotFound
	case domain.IsErrorCode(err, domain.ErrCodeInvalidTransition):
		return http.StatusConflict
	case domain.IsErrorCode(err, domain.ErrCodeInvalidAmount),
		domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	return http.StatusInternalServerError
}

// ToErrorCode returns a stable error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var valErr *adyen.ValidationError
	if errors.As(err, &valErr) {
		return "VALIDATION_ERROR"
	}

	var confErr *adyen.ConfigurationError
	if errors.As(err, &confErr) {
		return "CONFIGURATION_ERROR"
	}

	var schemaErr *adyen.SchemaValidationError
	if errors.As(err, &schemaErr) {
		return "SCHEMA_VALIDATION_ERROR"
	}

	var protoErr *adyen.ProtocolError
	if errors.As(err, &protoErr) {
		return "PROTOCOL_ERROR"
	}

	if se, ok := adyen.IsServiceException(err); ok {
		return se.ErrorCode
	}
	if ge, ok := adyen.IsGatewayError(err); ok {
		return ge.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	return "INTERNAL_ERROR"
}
