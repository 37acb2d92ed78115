package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/NEOCHOCAPIC/gastronomia/internal/config"
	"github.com/NEOCHOCAPIC/gastronomia/internal/errs"
	"github.com/NEOCHOCAPIC/gastronomia/internal/lib/email"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
)

// MessageContactDeliveryFailed is returned when the provider refuses the
// contact notification.
const MessageContactDeliveryFailed = "Error enviando email"

// ContactService relays contact-form messages to the business inbox.
type ContactService struct {
	cfg    config.EmailConfig
	sender EmailSender
	logger *zerolog.Logger
}

func NewContactService(cfg config.EmailConfig, sender EmailSender, logger *zerolog.Logger) *ContactService {
	return &ContactService{
		cfg:    cfg,
		sender: sender,
		logger: logger,
	}
}

// Submit delivers a validated contact message. No confirmation is sent back.
func (s *ContactService) Submit(ctx context.Context, sub *model.ContactSubmission) error {
	if err := checkConfigured(s.cfg); err != nil {
		return err
	}

	msg, err := email.ComposeContactNotification(sub, s.cfg.To)
	if err != nil {
		return errs.NewInternalServerError(err)
	}

	if err := deliver(ctx, s.sender, msg, MessageContactDeliveryFailed); err != nil {
		return err
	}

	loggerFrom(ctx, s.logger).Info().Msg("contact notification delivered")

	return nil
}
