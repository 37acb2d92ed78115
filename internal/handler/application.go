package handler

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/NEOCHOCAPIC/gastronomia/internal/middleware"
	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
	"github.com/NEOCHOCAPIC/gastronomia/internal/server"
	"github.com/NEOCHOCAPIC/gastronomia/internal/service"
	"github.com/NEOCHOCAPIC/gastronomia/internal/validation"
)

// Keys of the job application form.
const (
	fieldFullName     = "nombre"
	fieldEmail        = "email"
	fieldPhone        = "telefono"
	fieldCoverMessage = "mensaje"
	fieldResume       = "cv"
)

// MessageApplicationReceived is the body of a successful application.
const MessageApplicationReceived = "Candidatura recibida correctamente. Te enviaremos un email de confirmación."

// ApplicationRequest is a job application read from an HTML form.
type ApplicationRequest struct {
	model.ApplicationSubmission
}

// NewApplicationRequest returns an empty request for one submission.
func NewApplicationRequest() *ApplicationRequest {
	return &ApplicationRequest{}
}

// maxFieldBytes caps a single text field of the application form.
const maxFieldBytes = 1 << 20

// Bind reads the application form, multipart or urlencoded. Missing keys are
// left empty and only the first value of a repeated key is kept. Any other
// body is an error.
//
// Multipart bodies are streamed: the résumé is buffered only up to
// model.MaxResumeSizeBytes and the rest is counted and discarded, so an
// oversized upload still reaches validation with its declared type and real
// size.
func (r *ApplicationRequest) Bind(c echo.Context) error {
	req := c.Request()

	mediaType, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if err != nil {
		return errors.Wrap(err, "invalid form content type")
	}

	var values url.Values
	switch mediaType {
	case echo.MIMEMultipartForm:
		values, err = r.readMultipart(req)
	case echo.MIMEApplicationForm:
		err = req.ParseForm()
		values = req.PostForm
	default:
		err = errors.Errorf("unsupported form content type %q", mediaType)
	}
	if err != nil {
		return err
	}

	r.FullName = values.Get(fieldFullName)
	r.Email = values.Get(fieldEmail)
	r.Phone = values.Get(fieldPhone)
	r.CoverMessage = values.Get(fieldCoverMessage)

	logReceivedFields(c, &r.ApplicationSubmission)

	return nil
}

// readMultipart collects the text fields and the first cv file part. Other
// file parts are drained and ignored.
func (r *ApplicationRequest) readMultipart(req *http.Request) (url.Values, error) {
	mr, err := req.MultipartReader()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open multipart form")
	}

	values := url.Values{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read multipart form")
		}

		if err := r.readPart(part, values); err != nil {
			part.Close()
			return nil, err
		}
		part.Close()
	}
}

func (r *ApplicationRequest) readPart(part *multipart.Part, values url.Values) error {
	name := part.FormName()

	if part.FileName() == "" {
		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
		if err != nil {
			return errors.Wrapf(err, "failed to read form field %q", name)
		}
		if len(value) > maxFieldBytes {
			return errors.Errorf("form field %q exceeds %d bytes", name, maxFieldBytes)
		}
		values.Add(name, string(value))
		return nil
	}

	if name != fieldResume || r.Resume != nil {
		_, err := io.Copy(io.Discard, part)
		return errors.Wrapf(err, "failed to drain file field %q", name)
	}

	resume, err := readResume(part)
	if err != nil {
		return err
	}
	r.Resume = resume
	return nil
}

// readResume keeps at most model.MaxResumeSizeBytes of content. A larger file
// keeps its real size but no content; validation rejects it before the
// content is needed.
func readResume(part *multipart.Part) (*model.ResumeFile, error) {
	var buf bytes.Buffer
	kept, err := io.Copy(&buf, io.LimitReader(part, model.MaxResumeSizeBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read résumé")
	}

	rest, err := io.Copy(io.Discard, part)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read résumé")
	}

	size := kept + rest
	var content []byte
	if size <= model.MaxResumeSizeBytes {
		content = buf.Bytes()
	}

	return model.NewResumeFile(part.FileName(), part.Header.Get(echo.HeaderContentType), size, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(content)), nil
	}), nil
}

func (r *ApplicationRequest) Validate() error {
	return validation.ValidateApplication(&r.ApplicationSubmission)
}

// ApplicationHandler serves the job application form.
type ApplicationHandler struct {
	Handler
	service *service.ApplicationService
}

func NewApplicationHandler(s *server.Server, svc *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

// SubmitApplication forwards a validated application to the hiring inbox.
func (h *ApplicationHandler) SubmitApplication(c echo.Context, req *ApplicationRequest) (Response, error) {
	if err := h.service.Submit(c.Request().Context(), &req.ApplicationSubmission); err != nil {
		return Response{}, err
	}

	return Succeeded(MessageApplicationReceived), nil
}

// logReceivedFields logs which fields arrived and the declared résumé
// metadata. Text values are never logged.
func logReceivedFields(c echo.Context, sub *model.ApplicationSubmission) {
	event := middleware.GetLogger(c).Debug().
		Bool("nombre", sub.FullName != "").
		Bool("email", sub.Email != "").
		Bool("telefono", sub.Phone != "").
		Bool("mensaje", sub.CoverMessage != "").
		Bool("cv", sub.Resume != nil)

	if sub.Resume != nil {
		event = event.
			Str("cv_name", sub.Resume.Name).
			Str("cv_type", sub.Resume.MimeType).
			Int64("cv_size", sub.Resume.SizeBytes)
	}

	event.Msg("application fields received")
}
