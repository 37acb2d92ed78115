package email

import (
	"bytes"
	"embed"
	"text/template"

	"github.com/pkg/errors"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateApplicationNotification corresponds to templates/application_notification.html
	TemplateApplicationNotification Template = "application_notification"

	// TemplateApplicationConfirmation corresponds to templates/application_confirmation.html
	TemplateApplicationConfirmation Template = "application_confirmation"

	// TemplateContactNotification corresponds to templates/contact_notification.html
	TemplateContactNotification Template = "contact_notification"
)

//go:embed templates/*.html
var templateFS embed.FS

// templates are parsed once at init. text/template is used on purpose: every
// value handed to a template has already been escaped with utils.EscapeHTML,
// and html/template would escape it a second time with different entities.
var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// render executes the named template with data.
func render(name Template, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
