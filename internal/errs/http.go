package errs

import (
	"net/http"
)

// Public messages for the generic failure kinds. They never change with the
// cause so nothing about credentials or the provider leaks to callers.
const (
	MessageMisconfigured = "Servidor mal configurado"
	MessageServerError   = "Error del servidor"
	MessageRouteNotFound = "Ruta no encontrada"
)

// NewValidationError creates a 400 carrying a user-facing message.
func NewValidationError(reason Reason, message string) *HTTPError {
	return &HTTPError{
		Message: message,
		Status:  http.StatusBadRequest,
		Kind:    KindValidation,
		Reason:  reason,
	}
}

// NewConfigurationError creates a 500 for a deployment defect.
//
// cause is logged; the client only sees MessageMisconfigured.
func NewConfigurationError(cause error) *HTTPError {
	return &HTTPError{
		Message: MessageMisconfigured,
		Status:  http.StatusInternalServerError,
		Kind:    KindConfiguration,
		cause:   cause,
	}
}

// NewDeliveryError creates a 502 for a provider that refused a send.
//
// message is the endpoint's generic "failed to send" text.
func NewDeliveryError(message string, cause error) *HTTPError {
	return &HTTPError{
		Message: message,
		Status:  http.StatusBadGateway,
		Kind:    KindDelivery,
		cause:   cause,
	}
}

// NewInternalServerError creates a 500 for anything unexpected.
func NewInternalServerError(cause error) *HTTPError {
	return &HTTPError{
		Message: MessageServerError,
		Status:  http.StatusInternalServerError,
		Kind:    KindUnexpected,
		cause:   cause,
	}
}

// NewNotFoundError creates a 404 for unknown routes.
func NewNotFoundError() *HTTPError {
	return &HTTPError{
		Message: MessageRouteNotFound,
		Status:  http.StatusNotFound,
		Kind:    KindValidation,
	}
}

// FromStatus builds an error for a status produced outside our handlers
// (echo's 405, 413 and friends). The message is the standard status text.
func FromStatus(status int, cause error) *HTTPError {
	kind := KindUnexpected
	message := MessageServerError
	if status < http.StatusInternalServerError {
		kind = KindValidation
		message = http.StatusText(status)
	}
	return &HTTPError{
		Message: message,
		Status:  status,
		Kind:    kind,
		cause:   cause,
	}
}
