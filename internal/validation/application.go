package validation

import (
	"fmt"

	"github.com/NEOCHOCAPIC/gastronomia/internal/errs"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
)

const (
	MessageApplicationMissingFields = "Faltan campos requeridos (nombre, email, teléfono, CV)"
	MessageFileTooLarge             = "El archivo es demasiado grande. Máximo 5MB."
	messageUnsupportedFileType      = "Solo se aceptan archivos PDF. Recibido: %s"
)

// MessageUnsupportedFileType is the message for a résumé of the given type.
func MessageUnsupportedFileType(mimeType string) string {
	return fmt.Sprintf(messageUnsupportedFileType, mimeType)
}

// ValidateApplication checks a job application.
//
// Checks run in a fixed order and the first failure is reported:
// missing fields, then file type, then file size.
func ValidateApplication(sub *model.ApplicationSubmission) error {
	missing, err := hasMissingFields(sub)
	if err != nil {
		return errs.NewInternalServerError(err)
	}
	if missing {
		return errs.NewValidationError(errs.ReasonMissingFields, MessageApplicationMissingFields)
	}

	if sub.Resume.MimeType != model.ResumeMimeType {
		return errs.NewValidationError(errs.ReasonUnsupportedFileType, MessageUnsupportedFileType(sub.Resume.MimeType))
	}

	if sub.Resume.SizeBytes > model.MaxResumeSizeBytes {
		return errs.NewValidationError(errs.ReasonFileTooLarge, MessageFileTooLarge)
	}

	return nil
}
