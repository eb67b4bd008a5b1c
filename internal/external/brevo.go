package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hosteldesk/internal/types"
)

// brevoAPIBase is the default Brevo (Sendinblue) API base URL.
// Overridable in tests via BrevoClientConfig.BaseURL.
const brevoAPIBase = "https://api.brevo.com"

// brevoSendTimeout bounds a single transactional send call.
const brevoSendTimeout = 15 * time.Second

// BrevoClientConfig holds the configuration for creating a BrevoClient.
type BrevoClientConfig struct {
	APIKey  types.SecretString
	Sender  types.SenderIdentity
	BaseURL string // Override for testing; defaults to brevoAPIBase
	Logger  types.Logger
}

// BrevoClient implements MailProvider by making direct HTTP calls to the
// Brevo v3 transactional email API through BaseClient. Direct HTTP (rather
// than a vendor SDK) keeps the wire contract explicit and makes testing with
// httptest straightforward.
type BrevoClient struct {
	base    *BaseClient
	apiKey  types.SecretString
	sender  types.SenderIdentity
	baseURL string
	logger  types.Logger
}

// NewBrevoClient creates a BrevoClient with its own 15-second HTTP client.
func NewBrevoClient(cfg BrevoClientConfig) *BrevoClient {
	base := NewBaseClient(&http.Client{Timeout: brevoSendTimeout}, "brevo")
	return NewBrevoClientWithBase(base, cfg)
}

// NewBrevoClientWithBase creates a BrevoClient with a pre-configured
// BaseClient. Useful for testing when the caller controls the HTTP client.
func NewBrevoClientWithBase(base *BaseClient, cfg BrevoClientConfig) *BrevoClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = brevoAPIBase
	}

	return &BrevoClient{
		base:    base,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  cfg.Logger,
	}
}

// brevoMailPayload represents the Brevo v3 smtp/email JSON request body.
type brevoMailPayload struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
	HTMLContent string         `json:"htmlContent,omitempty"`
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendOne transmits one message to one recipient using the Brevo v3
// transactional endpoint.
//
// Status mapping:
//   - 2xx -> nil
//   - 429 -> ErrCodeUpstreamRateLimited (transient, logged at Warn)
//   - 5xx -> ErrCodeUpstreamUnavailable (transient, logged at Warn)
//   - other non-2xx -> ErrCodeProviderRejected (permanent, logged at Error)
//
// A missing API key is a configuration error (ErrCodeConfigMissing), not a
// provider rejection. Transport failures map to ErrCodeUpstreamUnavailable.
func (b *BrevoClient) SendOne(ctx context.Context, recipient string, msg types.Message) error {
	if !b.apiKey.IsSet() {
		b.logger.Error("brevo send skipped: BREVO_API_KEY missing")
		return types.NewAppError(types.ErrCodeConfigMissing, "brevo API key is not configured", nil)
	}

	payload := brevoMailPayload{
		Sender: brevoAddress{
			Email: b.sender.Email,
			Name:  b.sender.Name,
		},
		To:          []brevoAddress{{Email: recipient}},
		Subject:     msg.Subject,
		TextContent: msg.BodyText,
		HTMLContent: msg.BodyHTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to marshal brevo payload", err)
	}

	reqURL := b.baseURL + "/v3/smtp/email"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to create brevo request", err)
	}

	req.Header.Set("api-key", b.apiKey.Unmask())
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")

	resp, err := b.base.Do(req)
	if err != nil {
		b.logger.Warn("brevo request failed", "error", err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return b.mapErrorResponse(resp)
}

// mapErrorResponse translates a non-2xx Brevo response into an AppError.
// 429 and 5xx are transient; anything else is a permanent rejection carrying
// the status and response body for the dispatch summary.
func (b *BrevoClient) mapErrorResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		b.logger.Warn("brevo rate limited", "status", resp.StatusCode)
		return types.NewAppError(types.ErrCodeUpstreamRateLimited, "brevo rate limit exceeded", nil)

	case resp.StatusCode >= 500:
		b.logger.Warn("brevo server error", "status", resp.StatusCode)
		return types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("brevo server error (%d)", resp.StatusCode),
			nil,
		)
	}

	detail := readBodySnippet(resp.Body)
	b.logger.Error("brevo send failed", "status", resp.StatusCode, "body", detail)
	return types.NewAppError(
		types.ErrCodeProviderRejected,
		fmt.Sprintf("brevo send failed (%d): %s", resp.StatusCode, detail),
		nil,
	)
}

// readBodySnippet reads a bounded prefix of the response body for error
// reporting. Unreadable bodies are reported as empty.
func readBodySnippet(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Compile-time assertion that BrevoClient satisfies MailProvider.
var _ MailProvider = (*BrevoClient)(nil)
