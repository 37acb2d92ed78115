package errs

import "strings"

// Kind classifies an HTTPError by who is at fault.
type Kind string

const (
	// KindValidation is a defect in the submitted data.
	KindValidation Kind = "validation"

	// KindConfiguration is a deployment defect (missing credential or inbox).
	KindConfiguration Kind = "configuration"

	// KindDelivery is an upstream provider failure.
	KindDelivery Kind = "delivery"

	// KindUnexpected is anything else.
	KindUnexpected Kind = "unexpected"
)

// Reason narrows a validation failure down to the check that failed.
type Reason string

const (
	ReasonMissingFields       Reason = "MISSING_FIELDS"
	ReasonUnsupportedFileType Reason = "UNSUPPORTED_FILE_TYPE"
	ReasonFileTooLarge        Reason = "FILE_TOO_LARGE"
)

// HTTPError is the error type rendered to API clients.
//
// It serializes to the fixed response shape {"success": false, "message": ...}.
// Status, Kind and Reason drive logging and the status line; the cause is
// kept for logs only.
type HTTPError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	Status int    `json:"-"`
	Kind   Kind   `json:"-"`
	Reason Reason `json:"-"`

	cause error
}

// Error returns the public message, annotated with the cause when present so
// that logging err.Error() keeps the detail.
func (e *HTTPError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also an *HTTPError of the same kind.
//
// Reason is compared only when the target sets one, so
// errors.Is(err, &HTTPError{Kind: KindValidation}) matches any validation error.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// IsClientFault reports whether the error is the caller's fault (4xx).
func (e *HTTPError) IsClientFault() bool {
	return e.Status >= 400 && e.Status < 500
}

// MakeUpperCaseWithUnderscores converts "Bad Gateway" into "BAD_GATEWAY".
// Used to derive stable log codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
