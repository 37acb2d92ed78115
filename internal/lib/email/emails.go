package email

import (
	"fmt"
	"math"

	"github.com/NEOCHOCAPIC/gastronomia/internal/lib/utils"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
)

// Sender is the fixed From of every outbound email.
const Sender = "Mantagua Gastronomía <onboarding@resend.dev>"

const (
	subjectApplicationNotification = "🚀 Nueva Candidatura - %s"
	subjectContactNotification     = "Contacto web: %s"

	// SubjectApplicationConfirmation is the subject of the email sent back to applicants.
	SubjectApplicationConfirmation = "✅ Candidatura Recibida - Mantagua Gastronomía"
)

// applicationData is the already-escaped view of an application.
type applicationData struct {
	FullName      string
	Email         string
	Phone         string
	CoverMessage  string
	ResumeName    string
	ResumeSizeKiB string
	Inbox         string
}

type contactData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

func newApplicationData(sub *model.ApplicationSubmission, inbox string) applicationData {
	return applicationData{
		FullName:      utils.EscapeHTML(sub.FullName),
		Email:         utils.EscapeHTML(sub.Email),
		Phone:         utils.EscapeHTML(sub.Phone),
		CoverMessage:  utils.EscapeHTML(sub.CoverMessage),
		ResumeName:    utils.EscapeHTML(sub.Resume.Name),
		ResumeSizeKiB: formatKiB(sub.Resume.SizeKiB()),
		Inbox:         utils.EscapeHTML(inbox),
	}
}

// formatKiB renders a size with two decimals, rounding halves away from zero
// (0.125 KB is "0.13").
func formatKiB(kib float64) string {
	return fmt.Sprintf("%.2f", math.Round(kib*100)/100)
}

// ComposeApplicationNotification builds the email that tells the hiring inbox
// about a new application. The résumé travels as the only attachment, under
// the filename the applicant uploaded.
func ComposeApplicationNotification(sub *model.ApplicationSubmission, resume []byte, inbox string) (model.OutboundEmail, error) {
	data := newApplicationData(sub, inbox)

	html, err := render(TemplateApplicationNotification, data)
	if err != nil {
		return model.OutboundEmail{}, err
	}

	return model.OutboundEmail{
		From:     Sender,
		To:       []string{inbox},
		Subject:  fmt.Sprintf(subjectApplicationNotification, data.FullName),
		HTMLBody: html,
		Attachments: []model.Attachment{
			{Filename: sub.Resume.Name, Content: resume},
		},
	}, nil
}

// ComposeApplicationConfirmation builds the acknowledgment sent to the applicant.
func ComposeApplicationConfirmation(sub *model.ApplicationSubmission) (model.OutboundEmail, error) {
	html, err := render(TemplateApplicationConfirmation, applicationData{
		FullName: utils.EscapeHTML(sub.FullName),
	})
	if err != nil {
		return model.OutboundEmail{}, err
	}

	return model.OutboundEmail{
		From:     Sender,
		To:       []string{sub.Email},
		Subject:  SubjectApplicationConfirmation,
		HTMLBody: html,
	}, nil
}

// ComposeContactNotification builds the email that relays a contact-form
// message to the business inbox.
func ComposeContactNotification(sub *model.ContactSubmission, inbox string) (model.OutboundEmail, error) {
	data := contactData{
		Name:    utils.EscapeHTML(sub.Name),
		Email:   utils.EscapeHTML(sub.Email),
		Phone:   utils.EscapeHTML(sub.Phone),
		Subject: utils.EscapeHTML(sub.Subject),
		Message: utils.EscapeHTML(sub.Message),
	}

	html, err := render(TemplateContactNotification, data)
	if err != nil {
		return model.OutboundEmail{}, err
	}

	return model.OutboundEmail{
		From:     Sender,
		To:       []string{inbox},
		Subject:  fmt.Sprintf(subjectContactNotification, data.Subject),
		HTMLBody: html,
	}, nil
}
