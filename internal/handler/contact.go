package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
	"github.com/NEOCHOCAPIC/gastronomia/internal/server"
	"github.com/NEOCHOCAPIC/gastronomia/internal/service"
	"github.com/NEOCHOCAPIC/gastronomia/internal/validation"
)

// MessageContactSent is the body of a successful contact message.
const MessageContactSent = "Email enviado correctamente"

// ContactRequest is a contact-form message read from a JSON body.
type ContactRequest struct {
	model.ContactSubmission
}

// NewContactRequest returns an empty request for one submission.
func NewContactRequest() *ContactRequest {
	return &ContactRequest{}
}

// Bind decodes the body as JSON whatever its declared Content-Type. Browsers
// post it as text/plain to avoid a preflight.
func (r *ContactRequest) Bind(c echo.Context) error {
	if err := json.NewDecoder(c.Request().Body).Decode(&r.ContactSubmission); err != nil {
		return errors.Wrap(err, "failed to decode contact message")
	}
	return nil
}

func (r *ContactRequest) Validate() error {
	return validation.ValidateContact(&r.ContactSubmission)
}

type ContactHandler struct {
	Handler
	service *service.ContactService
}

func NewContactHandler(s *server.Server, svc *service.ContactService) *ContactHandler {
	return &ContactHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

// SubmitContact relays a validated message to the business inbox.
func (h *ContactHandler) SubmitContact(c echo.Context, req *ContactRequest) (Response, error) {
	if err := h.service.Submit(c.Request().Context(), &req.ContactSubmission); err != nil {
		return Response{}, err
	}

	return Succeeded(MessageContactSent), nil
}
