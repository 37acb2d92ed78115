package validation

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/NEOCHOCAPIC/gastronomia/internal/errs"
)

// validate is shared by every request; validator caches struct metadata and
// is safe for concurrent use.
var validate = validator.New()

// Validatable is implemented by request payload types that know how to
// validate themselves. Validate must return nil or an *errs.HTTPError.
type Validatable interface {
	Validate() error
}

// Binder is implemented by payloads that read themselves from the request
// instead of going through echo's default binder.
type Binder interface {
	Bind(c echo.Context) error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. payload.Bind(c) when the payload is a Binder, c.Bind(payload) otherwise.
//  2. payload.Validate().
//
// A body that cannot be read at all is treated as an unexpected failure
// (500), except one cut short by the body limit, which stays a 413. Only
// Validate produces client-facing 400s.
func BindAndValidate(c echo.Context, payload Validatable) error {
	var err error
	if binder, ok := payload.(Binder); ok {
		err = binder.Bind(c)
	} else {
		err = c.Bind(payload)
	}
	if err != nil {
		// BodyLimit aborts the read mid-body; keep its 413.
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) && echoErr.Code == http.StatusRequestEntityTooLarge {
			return echoErr
		}
		return errs.NewInternalServerError(pkgerrors.Wrap(err, "failed to read request body"))
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return errs.NewInternalServerError(err)
	}

	return nil
}

// hasMissingFields runs the `required` tags of v.
//
// It reports true for validator.ValidationErrors and returns any other
// validator failure (invalid argument) as err.
func hasMissingFields(v any) (bool, error) {
	err := validate.Struct(v)
	if err == nil {
		return false, nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return true, nil
	}

	return false, err
}
