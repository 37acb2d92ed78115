// Package email composes the notification and confirmation emails sent by the
// forms service and delivers them through Resend (resend-go).
//
// Bodies are rendered from HTML templates embedded into the binary, so the
// service does not depend on its working directory at runtime.
package email

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/NEOCHOCAPIC/gastronomia/internal/config"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
)

// maxErrorBody caps how much of a provider error body is kept for logs.
const maxErrorBody = 4 << 10

// Client delivers OutboundEmails through the Resend API.
type Client struct {
	// apiKey is sent as a bearer token on every request.
	apiKey string

	// baseURL is the provider root; it must end with a slash so the
	// "emails" path resolves beneath it.
	baseURL *url.URL

	// timeout bounds a single send, connection included.
	timeout time.Duration

	// transport is the underlying RoundTripper. Tests swap it out.
	transport http.RoundTripper

	logger *zerolog.Logger
}

// NewClient creates an email Client from the email settings.
//
// It does not check that the API key is set; callers decide whether an
// unconfigured client may be used (see config.EmailConfig.IsConfigured).
func NewClient(cfg config.EmailConfig, logger *zerolog.Logger) (*Client, error) {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid email base url %q", cfg.BaseURL)
	}

	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   u,
		timeout:   cfg.Timeout,
		transport: http.DefaultTransport,
		logger:    logger,
	}, nil
}

// Send submits one email.
//
// The provider's verdict is reported through DeliveryResult: a non-2xx answer
// is not an error, it is a result with Succeeded=false and the provider's
// body kept for logging. An error is returned only when no answer was
// received at all (network failure, timeout, cancelled context).
func (c *Client) Send(ctx context.Context, email model.OutboundEmail) (model.DeliveryResult, error) {
	recorder := &responseRecorder{next: c.transport}

	rc := resend.NewCustomClient(&http.Client{Transport: recorder, Timeout: c.timeout}, c.apiKey)
	rc.BaseURL = c.baseURL

	req, err := rc.NewRequest(ctx, http.MethodPost, "emails", newSendEmailBody(email))
	if err != nil {
		return model.DeliveryResult{}, errors.Wrap(err, "failed to build email request")
	}

	resp := &resend.SendEmailResponse{}
	_, sendErr := rc.Perform(req, resp)

	if recorder.statusCode == 0 {
		if sendErr == nil {
			sendErr = errors.New("provider returned no response")
		}
		return model.DeliveryResult{}, errors.Wrap(sendErr, "failed to reach email provider")
	}

	result := model.DeliveryResult{
		Succeeded:  recorder.statusCode >= 200 && recorder.statusCode < 300,
		StatusCode: recorder.statusCode,
		ErrorBody:  recorder.errorBody,
	}

	event := c.logger.Debug()
	if !result.Succeeded {
		event = c.logger.Warn().Str("provider_error", result.ErrorBody)
	}
	event = event.
		Int("provider_status", result.StatusCode).
		Strs("to", email.To).
		Int("attachments", len(email.Attachments))
	if resp.Id != "" {
		event = event.Str("email_id", resp.Id)
	}
	event.Msg("email provider responded")

	return result, nil
}

// sendEmailBody is the JSON accepted by the provider's /emails endpoint.
// Attachment content travels base64 encoded.
type sendEmailBody struct {
	From        string           `json:"from"`
	To          []string         `json:"to"`
	Subject     string           `json:"subject"`
	HTML        string           `json:"html"`
	Attachments []attachmentBody `json:"attachments,omitempty"`
}

type attachmentBody struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func newSendEmailBody(email model.OutboundEmail) sendEmailBody {
	body := sendEmailBody{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTMLBody,
	}
	for _, a := range email.Attachments {
		body.Attachments = append(body.Attachments, attachmentBody{
			Filename: a.Filename,
			Content:  a.Base64Content(),
		})
	}
	return body
}

// responseRecorder captures the provider's status code and, on failure, its
// body. resend-go folds non-2xx answers into a plain error, which loses the
// status the service needs to tell a rejection from a transport failure.
type responseRecorder struct {
	next http.RoundTripper

	statusCode int
	errorBody  string
}

func (r *responseRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	r.statusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	r.errorBody = string(body)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
