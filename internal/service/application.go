package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/NEOCHOCAPIC/gastronomia/internal/config"
	"github.com/NEOCHOCAPIC/gastronomia/internal/errs"
	"github.com/NEOCHOCAPIC/gastronomia/internal/lib/email"
	"github.com/NEOCHOCAPIC/gastronomia/internal/lib/job"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
)

// MessageApplicationDeliveryFailed is returned when the provider refuses the
// hiring notification.
const MessageApplicationDeliveryFailed = "Error enviando candidatura"

// ApplicationService forwards job applications to the hiring inbox and
// acknowledges them to the applicant.
type ApplicationService struct {
	cfg    config.EmailConfig
	sender EmailSender
	jobs   Dispatcher
	logger *zerolog.Logger
}

func NewApplicationService(cfg config.EmailConfig, sender EmailSender, jobs Dispatcher, logger *zerolog.Logger) *ApplicationService {
	return &ApplicationService{
		cfg:    cfg,
		sender: sender,
		jobs:   jobs,
		logger: logger,
	}
}

// Submit delivers a validated application.
//
// The hiring notification, résumé attached, is sent synchronously and its
// outcome decides the result. Only once it has been accepted is the
// applicant's confirmation handed to the background dispatcher; whether that
// second email arrives never changes the result.
func (s *ApplicationService) Submit(ctx context.Context, sub *model.ApplicationSubmission) error {
	if err := checkConfigured(s.cfg); err != nil {
		return err
	}

	resume, err := sub.Resume.ReadAll()
	if err != nil {
		return errs.NewInternalServerError(errors.Wrap(err, "failed to read résumé"))
	}

	notification, err := email.ComposeApplicationNotification(sub, resume, s.cfg.To)
	if err != nil {
		return errs.NewInternalServerError(err)
	}

	if err := deliver(ctx, s.sender, notification, MessageApplicationDeliveryFailed); err != nil {
		return err
	}

	logger := loggerFrom(ctx, s.logger)
	logger.Info().
		Int("resume_bytes", len(resume)).
		Msg("application notification delivered")

	s.sendConfirmation(logger, sub)

	return nil
}

// sendConfirmation dispatches the acknowledgment email. Failures are logged
// and swallowed.
func (s *ApplicationService) sendConfirmation(logger *zerolog.Logger, sub *model.ApplicationSubmission) {
	confirmation, err := email.ComposeApplicationConfirmation(sub)
	if err != nil {
		logger.Error().Err(err).Msg("failed to compose application confirmation")
		return
	}

	if !s.jobs.Dispatch(job.NewSendEmailTask(job.TaskApplicationConfirmation, s.sender, confirmation)) {
		logger.Warn().Msg("application confirmation not dispatched")
	}
}
