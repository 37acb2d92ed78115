package router

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEOCHOCAPIC/gastronomia/internal/config"
	"github.com/NEOCHOCAPIC/gastronomia/internal/handler"
	"github.com/NEOCHOCAPIC/gastronomia/internal/server"
	"github.com/NEOCHOCAPIC/gastronomia/internal/service"
)

const inbox = "rrhh@mantagua.com"

// provider stands in for the email API. It answers calls with the scripted
// statuses in order, then 200.
type provider struct {
	*httptest.Server

	mu       sync.Mutex
	statuses []int
	requests []map[string]any
}

func newProvider(t *testing.T, statuses ...int) *provider {
	t.Helper()

	p := &provider{statuses: statuses}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		p.mu.Lock()
		p.requests = append(p.requests, body)
		status := http.StatusOK
		if len(p.statuses) > 0 {
			status = p.statuses[0]
			p.statuses = p.statuses[1:]
		}
		p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"id":"4ef9a417-02e9-4d39-ad75-9611e0fcc33c"}`))
			return
		}
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"rejected"}`))
	}))
	t.Cleanup(p.Close)

	return p
}

func (p *provider) Requests() []map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]map[string]any(nil), p.requests...)
}

type testAPI struct {
	echo     *echo.Echo
	server   *server.Server
	provider *provider
}

func newTestAPI(t *testing.T, p *provider, mutate func(*config.Config)) *testAPI {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Email.APIKey = "re_test"
	cfg.Email.To = inbox
	cfg.Email.BaseURL = p.URL
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	srv, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services, err := service.NewServices(srv)
	require.NoError(t, err)

	return &testAPI{
		echo:     NewRouter(srv, handler.NewHandlers(srv, services)),
		server:   srv,
		provider: p,
	}
}

// drain waits for background confirmation sends.
func (api *testAPI) drain(t *testing.T) {
	t.Helper()
	require.NoError(t, api.server.Job.Stop(context.Background()))
}

func (api *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	api.echo.ServeHTTP(rec, req)
	return rec
}

type resume struct {
	name     string
	mimeType string
	content  []byte
}

func pdf(size int) *resume {
	return &resume{name: "cv.pdf", mimeType: "application/pdf", content: bytes.Repeat([]byte("a"), size)}
}

func applicationRequest(t *testing.T, path string, fields map[string]string, cv *resume) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if cv != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="cv"; filename=%q`, cv.name))
		h.Set("Content-Type", cv.mimeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(cv.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func anaFields() map[string]string {
	return map[string]string{
		"nombre":   "Ana",
		"email":    "ana@x.com",
		"telefono": "+56911112222",
	}
}

func contactRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/enviar-contacto", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var e envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestPreflight(t *testing.T) {
	// No API key, no inbox: preflight must not care.
	api := newTestAPI(t, newProvider(t), func(c *config.Config) {
		c.Email.APIKey = ""
		c.Email.To = ""
	})

	for _, path := range []string{"/enviar-candidatura", "/api/enviar-contacto", "/no-such-route"} {
		t.Run(path, func(t *testing.T) {
			rec := api.do(httptest.NewRequest(http.MethodOptions, path, nil))

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Body.String())
			assertCORS(t, rec)
		})
	}
}

func TestApplication_Success(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)
	cv := pdf(200 * 1024)

	rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), cv))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, envelope{Success: true, Message: handler.MessageApplicationReceived}, decode(t, rec))
	assertCORS(t, rec)

	api.drain(t)
	requests := api.provider.Requests()
	require.Len(t, requests, 2)

	notification := requests[0]
	assert.Equal(t, []any{inbox}, notification["to"])
	assert.Equal(t, "🚀 Nueva Candidatura - Ana", notification["subject"])
	assert.Contains(t, notification["html"], "200.00 KB")

	attachments := notification["attachments"].([]any)
	require.Len(t, attachments, 1)
	attachment := attachments[0].(map[string]any)
	assert.Equal(t, "cv.pdf", attachment["filename"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(cv.content), attachment["content"])

	confirmation := requests[1]
	assert.Equal(t, []any{"ana@x.com"}, confirmation["to"])
	assert.Equal(t, "✅ Candidatura Recibida - Mantagua Gastronomía", confirmation["subject"])
	assert.Nil(t, confirmation["attachments"])
}

func TestApplication_APIPrefix(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)

	rec := api.do(applicationRequest(t, "/api/enviar-candidatura", anaFields(), pdf(1024)))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	api.drain(t)
}

func TestApplication_ValidationFailures(t *testing.T) {
	withoutPhone := anaFields()
	delete(withoutPhone, "telefono")

	tests := []struct {
		name    string
		fields  map[string]string
		cv      *resume
		message string
	}{
		{
			name:    "missing cv",
			fields:  anaFields(),
			message: "Faltan campos requeridos (nombre, email, teléfono, CV)",
		},
		{
			name:    "missing phone",
			fields:  withoutPhone,
			cv:      pdf(10),
			message: "Faltan campos requeridos (nombre, email, teléfono, CV)",
		},
		{
			name:    "png",
			fields:  anaFields(),
			cv:      &resume{name: "cv.png", mimeType: "image/png", content: []byte("png")},
			message: "Solo se aceptan archivos PDF. Recibido: image/png",
		},
		{
			name:    "too large",
			fields:  anaFields(),
			cv:      pdf(6 * 1024 * 1024),
			message: "El archivo es demasiado grande. Máximo 5MB.",
		},
		{
			name:    "pdf larger than the body limit",
			fields:  anaFields(),
			cv:      pdf(9 * 1024 * 1024),
			message: "El archivo es demasiado grande. Máximo 5MB.",
		},
		{
			name:    "png larger than the body limit",
			fields:  anaFields(),
			cv:      &resume{name: "cv.png", mimeType: "image/png", content: bytes.Repeat([]byte("a"), 9*1024*1024)},
			message: "Solo se aceptan archivos PDF. Recibido: image/png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, newProvider(t), nil)

			rec := api.do(applicationRequest(t, "/enviar-candidatura", tt.fields, tt.cv))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, envelope{Success: false, Message: tt.message}, decode(t, rec))
			assertCORS(t, rec)
			assert.Empty(t, api.provider.Requests())
		})
	}
}

func TestApplication_ExactlyFiveMiBIsAccepted(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)

	rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), pdf(5*1024*1024)))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	api.drain(t)
}

func TestApplication_Misconfigured(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no api key", func(c *config.Config) { c.Email.APIKey = "" }},
		{"no inbox", func(c *config.Config) { c.Email.To = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, newProvider(t), tt.mutate)

			rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), pdf(10)))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, envelope{Success: false, Message: "Servidor mal configurado"}, decode(t, rec))
			assert.Empty(t, api.provider.Requests())
		})
	}
}

func TestApplication_ValidationRunsBeforeConfigurationCheck(t *testing.T) {
	api := newTestAPI(t, newProvider(t), func(c *config.Config) { c.Email.APIKey = "" })

	rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplication_ProviderRejection(t *testing.T) {
	api := newTestAPI(t, newProvider(t, http.StatusUnprocessableEntity), nil)

	rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), pdf(10)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, envelope{Success: false, Message: "Error enviando candidatura"}, decode(t, rec))
	assert.NotContains(t, rec.Body.String(), "rejected")

	api.drain(t)
	assert.Len(t, api.provider.Requests(), 1, "no confirmation after a failed notification")
}

func TestApplication_ConfirmationFailureDoesNotChangeResponse(t *testing.T) {
	api := newTestAPI(t, newProvider(t, http.StatusOK, http.StatusInternalServerError), nil)

	rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), pdf(10)))

	assert.Equal(t, http.StatusOK, rec.Code)
	api.drain(t)
	assert.Len(t, api.provider.Requests(), 2)
}

func TestApplication_ProviderUnreachable(t *testing.T) {
	p := newProvider(t)
	api := newTestAPI(t, p, nil)
	p.Close()

	rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), pdf(10)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, envelope{Success: false, Message: "Error del servidor"}, decode(t, rec))
}

func TestApplication_MarkupIsEscaped(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)
	fields := anaFields()
	fields["nombre"] = `<script>alert(1)</script>`
	fields["mensaje"] = `"hola" & 'adiós'`

	rec := api.do(applicationRequest(t, "/enviar-candidatura", fields, pdf(10)))
	require.Equal(t, http.StatusOK, rec.Code)

	api.drain(t)
	for _, r := range api.provider.Requests() {
		html := r["html"].(string)
		assert.NotContains(t, html, "<script>")
		assert.NotContains(t, r["subject"], "<script>")
	}

	notification := api.provider.Requests()[0]["html"].(string)
	assert.Contains(t, notification, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, notification, "&quot;hola&quot; &amp; &#039;adiós&#039;")
}

func TestApplication_NotAForm(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/enviar-candidatura", strings.NewReader(`{"nombre":"Ana"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := api.do(req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, envelope{Success: false, Message: "Error del servidor"}, decode(t, rec))
}

func TestApplication_UrlencodedForm(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)

	form := url.Values{"nombre": {"Ana"}, "email": {"ana@x.com"}, "telefono": {"+56911112222"}}
	req := httptest.NewRequest(http.MethodPost, "/enviar-candidatura", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := api.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, envelope{Success: false, Message: "Faltan campos requeridos (nombre, email, teléfono, CV)"}, decode(t, rec))
	assert.Empty(t, api.provider.Requests())
}

func TestApplication_RepeatedKeysKeepFirstValue(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("nombre", "Ana"))
	require.NoError(t, w.WriteField("nombre", "Otra"))
	require.NoError(t, w.WriteField("email", "ana@x.com"))
	require.NoError(t, w.WriteField("telefono", "+56911112222"))
	for _, name := range []string{"primero.pdf", "segundo.pdf"} {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="cv"; filename=%q`, name))
		h.Set("Content-Type", "application/pdf")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/enviar-candidatura", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := api.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	api.drain(t)

	notification := api.provider.Requests()[0]
	assert.Equal(t, "🚀 Nueva Candidatura - Ana", notification["subject"])
	attachment := notification["attachments"].([]any)[0].(map[string]any)
	assert.Equal(t, "primero.pdf", attachment["filename"])
}

func TestBodyLimit(t *testing.T) {
	limited := func(c *config.Config) { c.Server.BodyLimit = "1K" }

	t.Run("application form is not capped", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), limited)

		rec := api.do(applicationRequest(t, "/enviar-candidatura", anaFields(), pdf(4*1024)))

		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		api.drain(t)
	})

	t.Run("contact body over the limit", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), limited)

		message := strings.Repeat("a", 4*1024)
		rec := api.do(contactRequest(`{"name":"Luis","email":"luis@x.com","subject":"Hola","message":"` + message + `"}`))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.False(t, decode(t, rec).Success)
		assertCORS(t, rec)
		assert.Empty(t, api.provider.Requests())
	})
}

func TestContact(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), nil)

		rec := api.do(contactRequest(`{"name":"Luis","email":"luis@x.com","subject":"Reserva","message":"Mesa para 4"}`))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, envelope{Success: true, Message: handler.MessageContactSent}, decode(t, rec))

		requests := api.provider.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "Contacto web: Reserva", requests[0]["subject"])
		assert.Contains(t, requests[0]["html"], "<em>No proporcionado</em>")
	})

	t.Run("missing fields", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), nil)

		rec := api.do(contactRequest(`{"name":"Luis","email":"luis@x.com"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, envelope{Success: false, Message: "Faltan campos requeridos"}, decode(t, rec))
	})

	t.Run("malformed json", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), nil)

		rec := api.do(contactRequest(`{"name":`))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, envelope{Success: false, Message: "Error del servidor"}, decode(t, rec))
	})

	t.Run("provider rejection", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t, http.StatusForbidden), nil)

		rec := api.do(contactRequest(`{"name":"Luis","email":"luis@x.com","subject":"Hola","message":"Hola"}`))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, envelope{Success: false, Message: "Error enviando email"}, decode(t, rec))
	})

	t.Run("json without a json content type", func(t *testing.T) {
		for _, contentType := range []string{"text/plain;charset=UTF-8", ""} {
			api := newTestAPI(t, newProvider(t), nil)

			req := contactRequest(`{"name":"Luis","email":"luis@x.com","subject":"Hola","message":"Hola"}`)
			req.Header.Set(echo.HeaderContentType, contentType)
			rec := api.do(req)

			assert.Equal(t, http.StatusOK, rec.Code, "content type %q: %s", contentType, rec.Body.String())
			assert.Len(t, api.provider.Requests(), 1)
		}
	})

	t.Run("api prefix", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), nil)

		req := contactRequest(`{"name":"Luis","email":"luis@x.com","subject":"Hola","message":"Hola"}`)
		req.URL.Path = "/api/enviar-contacto"

		assert.Equal(t, http.StatusOK, api.do(req).Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, envelope{Success: false, Message: "Ruta no encontrada"}, decode(t, rec))
	assertCORS(t, rec)
}

func TestStatus(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), nil)

		rec := api.do(httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	})

	t.Run("not configured", func(t *testing.T) {
		api := newTestAPI(t, newProvider(t), func(c *config.Config) { c.Email.To = "" })

		rec := api.do(httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
		assert.Contains(t, rec.Body.String(), `"missing":["to"]`)
	})
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newTestAPI(t, newProvider(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := api.do(req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
