package validation

import (
	"github.com/NEOCHOCAPIC/gastronomia/internal/errs"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
)

const MessageContactMissingFields = "Faltan campos requeridos"

// ValidateContact checks that name, email, subject and message are present.
func ValidateContact(sub *model.ContactSubmission) error {
	missing, err := hasMissingFields(sub)
	if err != nil {
		return errs.NewInternalServerError(err)
	}
	if missing {
		return errs.NewValidationError(errs.ReasonMissingFields, MessageContactMissingFields)
	}
	return nil
}
