// Package config defines the global configuration for hosteldesk.
// Configuration is loaded once at process initialization and is immutable
// thereafter; re-resolving requires restarting the process (no hot reload).
// It follows 12-Factor principles by strictly separating code from
// configuration.
//
// The environment variable names mirror the deployment conventions of the
// hostel management system: SEND_PROVIDER selects the mail provider,
// BREVO_API_KEY carries the bulk-API credential, and FROM_EMAIL falls back
// to MAIL_USERNAME when unset.
package config

import (
	"strings"

	"hosteldesk/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used throughout configuration to prevent accidental logging of sensitive
// values.
type SecretString = types.SecretString

// Provider selector values accepted in SEND_PROVIDER.
const (
	ProviderBrevo = "brevo"
	ProviderSMTP  = "smtp"
)

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified. Sub-components receive only the
// specific config subsets they require.
type Config struct {
	// System metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain configurations
	Server   ServerConfig
	Mail     MailConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server settings for the admin API.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// MailConfig holds the provider selector, credentials, and sender identity.
type MailConfig struct {
	// Provider is the explicit provider selector. Empty means auto-select:
	// brevo when BrevoAPIKey is set, smtp otherwise.
	Provider string `envconfig:"SEND_PROVIDER" validate:"omitempty,oneof=brevo smtp"`

	BrevoAPIKey SecretString `envconfig:"BREVO_API_KEY"`

	FromEmail    string `envconfig:"FROM_EMAIL"`
	MailUsername string `envconfig:"MAIL_USERNAME"`
	FromName     string `envconfig:"FROM_NAME" default:"Hostel Management"`

	// SMTP relay fallback settings.
	SMTPHost     string       `envconfig:"SMTP_HOST"`
	SMTPPort     int          `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string       `envconfig:"SMTP_USERNAME"`
	SMTPPassword SecretString `envconfig:"SMTP_PASSWORD"`
}

// DatabaseConfig holds the Postgres connection settings for the catalog
// importer.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL"`

	MaxConns int `envconfig:"DB_MAX_CONNS" default:"4"`
}

// SelectedProvider resolves the effective mail provider. The precedence is:
// explicit SEND_PROVIDER value, else brevo when the bulk-API credential is
// present, else the SMTP relay fallback. Resolved once at startup; send
// logic never re-evaluates it.
func (m MailConfig) SelectedProvider() string {
	if p := strings.ToLower(strings.TrimSpace(m.Provider)); p != "" {
		return p
	}
	if m.BrevoAPIKey.IsSet() {
		return ProviderBrevo
	}
	return ProviderSMTP
}

// Sender resolves the From identity. FROM_EMAIL wins; MAIL_USERNAME is the
// legacy fallback kept for parity with existing deployments.
func (m MailConfig) Sender() types.SenderIdentity {
	email := m.FromEmail
	if email == "" {
		email = m.MailUsername
	}
	return types.SenderIdentity{
		Email: email,
		Name:  m.FromName,
	}
}
