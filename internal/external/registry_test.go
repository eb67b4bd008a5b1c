package external

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hosteldesk/internal/config"
)

func TestNewProviderFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MailConfig
		want string
	}{
		{
			name: "explicit brevo",
			cfg:  config.MailConfig{Provider: "brevo"},
			want: "brevo",
		},
		{
			name: "explicit smtp wins even with an API key present",
			cfg:  config.MailConfig{Provider: "smtp", BrevoAPIKey: "key"},
			want: "smtp",
		},
		{
			name: "api key selects brevo",
			cfg:  config.MailConfig{BrevoAPIKey: "key"},
			want: "brevo",
		},
		{
			name: "nothing configured falls back to smtp",
			cfg:  config.MailConfig{},
			want: "smtp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewProviderFromConfig(tt.cfg, nopLogger{})

			switch tt.want {
			case "brevo":
				assert.IsType(t, (*BrevoClient)(nil), provider)
			case "smtp":
				assert.IsType(t, (*SMTPRelay)(nil), provider)
			}
		})
	}
}
