// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that the
// values the server cannot start without are present.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad config.
//   - Provide sane defaults for everything that has one.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any of the providers below read it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

/*
	Env vars are read using the prefix GASTRONOMIA_. Keys are lowercased,
	the prefix is removed and a double underscore marks nesting:

	  GASTRONOMIA_SERVER__PORT       -> server.port    -> Config.Server.Port
	  GASTRONOMIA_EMAIL__API_KEY     -> email.api_key  -> Config.Email.APIKey

	The two variables used by the first deployment of the forms
	(RESEND_API_KEY and CONTACT_TO) are still honoured; prefixed names win.
*/

const (
	// EnvPrefix is the prefix every application variable carries.
	EnvPrefix = "GASTRONOMIA_"

	// nestingSeparator marks a nesting level inside a variable name.
	nestingSeparator = "__"
)

// legacyKeys maps the unprefixed variable names of the earlier deployment to
// their koanf keys.
var legacyKeys = map[string]string{
	"RESEND_API_KEY": "email.api_key",
	"CONTACT_TO":     "email.to",
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from and the
// `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Email         EmailConfig          `koanf:"email" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and to switch behaviour based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`

	// BodyLimit caps the size of a JSON request body in echo's notation ("8M").
	// It must stay above the résumé size limit plus multipart overhead,
	// otherwise oversized résumés get a 413 instead of the descriptive 400.
	BodyLimit string `koanf:"body_limit" validate:"required"`
}

// EmailConfig holds everything needed to talk to the delivery provider.
//
// APIKey and To are deliberately not required here: a deployment without them
// must still answer preflight requests and report a configuration error per
// request instead of refusing to boot.
type EmailConfig struct {
	// APIKey is the provider bearer token.
	APIKey string `koanf:"api_key"`

	// To is the business inbox that receives notifications. It is used verbatim.
	To string `koanf:"to"`

	// BaseURL is the provider API root. Overridden in tests.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Timeout bounds a single provider call.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// MissingSettings lists the email settings a request needs but that are not set.
// An empty result means the provider is usable.
func (e EmailConfig) MissingSettings() []string {
	var missing []string
	if e.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if e.To == "" {
		missing = append(missing, "to")
	}
	return missing
}

// IsConfigured reports whether the provider credential and inbox are both set.
func (e EmailConfig) IsConfigured() bool {
	return len(e.MissingSettings()) == 0
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
			BodyLimit:    "8M",
		},
		Email: EmailConfig{
			BaseURL: "https://api.resend.com/",
			Timeout: 15 * time.Second,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it and returns the result.
//
// Behavior summary:
//   - Loads the legacy unprefixed variables (RESEND_API_KEY, CONTACT_TO)
//   - Loads every GASTRONOMIA_ variable, overriding the legacy ones
//   - Unmarshals into Config (defaults survive for keys that are not set)
//   - Validates tags, then the observability block's own rules
func LoadConfig() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	// An empty prefix walks the whole environment; the callback blanks every
	// key that is not one of the legacy names so koanf skips it.
	err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyKeys[s]
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load legacy env variables")
	}

	err = k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := DefaultConfig()

	// Unmarshal from the root. Keys absent from koanf leave the defaults alone.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed per service; environment follows primary.env so
	// logs and traces always agree.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}

// envKey turns GASTRONOMIA_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, nestingSeparator, ".")
}
