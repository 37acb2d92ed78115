package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/NEOCHOCAPIC/gastronomia/internal/config"
	"github.com/NEOCHOCAPIC/gastronomia/internal/errs"
	"github.com/NEOCHOCAPIC/gastronomia/internal/lib/email"
	"github.com/NEOCHOCAPIC/gastronomia/internal/lib/job"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
	"github.com/NEOCHOCAPIC/gastronomia/internal/server"
)

// EmailSender delivers one email and reports the provider's verdict.
type EmailSender interface {
	Send(ctx context.Context, email model.OutboundEmail) (model.DeliveryResult, error)
}

// Dispatcher runs tasks in the background without blocking the caller.
type Dispatcher interface {
	Dispatch(t *job.Task) bool
}

// Services groups the business services used by the handlers.
type Services struct {
	Application *ApplicationService
	Contact     *ContactService
}

// NewServices builds every service around a single email client.
func NewServices(s *server.Server) (*Services, error) {
	client, err := email.NewClient(s.Config.Email, s.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create email client")
	}

	return &Services{
		Application: NewApplicationService(s.Config.Email, client, s.Job, s.Logger),
		Contact:     NewContactService(s.Config.Email, client, s.Logger),
	}, nil
}

// checkConfigured fails with a ConfigurationError when the provider key or
// the destination inbox is missing.
func checkConfigured(cfg config.EmailConfig) error {
	if missing := cfg.MissingSettings(); len(missing) > 0 {
		return errs.NewConfigurationError(errors.Errorf("email settings not set: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// deliver sends msg and maps the outcome onto the public error kinds.
//
// A provider rejection becomes a 502 with failureMessage; a send that never
// reached the provider is unexpected.
func deliver(ctx context.Context, sender EmailSender, msg model.OutboundEmail, failureMessage string) error {
	result, err := sender.Send(ctx, msg)
	if err != nil {
		return errs.NewInternalServerError(err)
	}

	if !result.Succeeded {
		return errs.NewDeliveryError(failureMessage, errors.Errorf(
			"email provider rejected message with status %d: %s", result.StatusCode, result.ErrorBody,
		))
	}

	return nil
}

// loggerFrom returns the request logger carried by ctx, or fallback when the
// call did not come through the HTTP stack.
func loggerFrom(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
