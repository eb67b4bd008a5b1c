package external

import (
	"hosteldesk/internal/config"
	"hosteldesk/internal/types"
)

// NewProviderFromConfig constructs the mail provider selected by the
// configuration. Selection happens exactly once, here: an explicit
// SEND_PROVIDER value wins, otherwise Brevo is chosen when its API key is
// present, otherwise the SMTP relay fallback. Send logic never re-evaluates
// the choice.
func NewProviderFromConfig(cfg config.MailConfig, logger types.Logger) MailProvider {
	switch cfg.SelectedProvider() {
	case config.ProviderBrevo:
		return NewBrevoClient(BrevoClientConfig{
			APIKey: cfg.BrevoAPIKey,
			Sender: cfg.Sender(),
			Logger: logger.With("provider", "brevo"),
		})
	default:
		return NewSMTPRelay(SMTPRelayConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Sender:   cfg.Sender(),
			Logger:   logger.With("provider", "smtp"),
		})
	}
}
