package external

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"hosteldesk/internal/types"
)

// Dialer abstracts net.Dialer to simplify testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// SMTPRelayConfig holds the settings for the local mail-relay fallback.
type SMTPRelayConfig struct {
	Host     string
	Port     int
	Username string
	Password types.SecretString
	Sender   types.SenderIdentity
	Logger   types.Logger
}

// SMTPRelayOption configures the behaviour of the relay.
type SMTPRelayOption func(*SMTPRelay)

// WithRelayDialer swaps the network dialer used to establish connections.
func WithRelayDialer(d Dialer) SMTPRelayOption {
	return func(r *SMTPRelay) {
		if d != nil {
			r.dialer = d
		}
	}
}

// WithRelayClock replaces the clock used for Date headers.
func WithRelayClock(clock types.Clock) SMTPRelayOption {
	return func(r *SMTPRelay) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// SMTPRelay implements MailProvider over a plain SMTP session. It is the
// fallback transport when no bulk-API credential is configured. Each SendOne
// opens a scoped session and releases it on every exit path, success or
// failure.
type SMTPRelay struct {
	host      string
	port      int
	auth      smtp.Auth
	sender    types.SenderIdentity
	tlsConfig *tls.Config
	dialer    Dialer
	clock     types.Clock
	helloName string
	logger    types.Logger
}

// NewSMTPRelay constructs the relay fallback. An incomplete configuration
// (missing host or sender address) is not a construction error: every send
// then fails as a configuration error rather than a provider rejection.
func NewSMTPRelay(cfg SMTPRelayConfig, opts ...SMTPRelayOption) *SMTPRelay {
	r := &SMTPRelay{
		host:      strings.TrimSpace(cfg.Host),
		port:      cfg.Port,
		sender:    cfg.Sender,
		dialer:    &net.Dialer{Timeout: 30 * time.Second},
		clock:     types.RealClock{},
		helloName: "localhost",
		logger:    cfg.Logger,
	}

	if strings.TrimSpace(cfg.Username) != "" {
		r.auth = smtp.PlainAuth("", cfg.Username, cfg.Password.Unmask(), r.host)
	}

	r.tlsConfig = &tls.Config{
		ServerName: r.host,
		MinVersion: tls.VersionTLS12,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// configured reports whether the relay has enough settings to attempt a
// session.
func (r *SMTPRelay) configured() bool {
	return r.host != "" && r.port > 0 && r.sender.Email != ""
}

// SendOne delivers one message to one recipient through a scoped SMTP
// session. Any failure during construction or submission is a permanent
// failure for that attempt (ErrCodeRelayFailure); an unconfigured relay is a
// configuration error (ErrCodeConfigMissing), logged distinctly.
func (r *SMTPRelay) SendOne(ctx context.Context, recipient string, msg types.Message) error {
	if !r.configured() {
		r.logger.Error("smtp relay not configured; cannot send",
			"host_set", r.host != "",
			"sender_set", r.sender.Email != "",
		)
		return types.NewAppError(types.ErrCodeConfigMissing, "smtp relay is not configured", nil)
	}

	message, err := r.buildMessage(recipient, msg)
	if err != nil {
		r.logger.Error("smtp message construction failed", "error", err.Error())
		return types.NewAppError(types.ErrCodeRelayFailure, "failed to build relay message", err)
	}

	if err := r.deliver(ctx, recipient, message); err != nil {
		r.logger.Error("smtp relay send failed", "error", err.Error())
		return types.NewAppError(types.ErrCodeRelayFailure, "relay submission failed", err)
	}

	return nil
}

// deliver runs one scoped SMTP session: dial, hello, STARTTLS when offered,
// auth when configured, envelope, data, quit. The connection is released on
// every exit path via the deferred closes.
func (r *SMTPRelay) deliver(ctx context.Context, recipient string, message []byte) error {
	addr := net.JoinHostPort(r.host, strconv.Itoa(r.port))
	conn, err := r.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, r.host)
	if err != nil {
		return fmt.Errorf("new client: %w", err)
	}
	defer client.Close()

	if err := client.Hello(r.helloName); err != nil {
		return fmt.Errorf("hello: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(r.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if r.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(r.auth); err != nil {
				return fmt.Errorf("auth: %w", err)
			}
		}
	}

	if err := client.Mail(r.sender.Email); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return fmt.Errorf("data write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("data close: %w", err)
	}

	return client.Quit()
}

// buildMessage renders the RFC 5322 message bytes. Messages without an HTML
// body are plain text; messages with one become multipart/alternative with
// the text part first.
func (r *SMTPRelay) buildMessage(recipient string, msg types.Message) ([]byte, error) {
	var buf bytes.Buffer

	from := r.sender.Email
	if r.sender.Name != "" {
		from = fmt.Sprintf("%s <%s>", sanitizeHeaderValue(r.sender.Name), r.sender.Email)
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", sanitizeHeaderValue(recipient))
	fmt.Fprintf(&buf, "Subject: %s\r\n", sanitizeHeaderValue(msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", r.clock.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if msg.BodyHTML == "" {
		buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		buf.WriteString("\r\n")
		buf.WriteString(normalizeBody(msg.BodyText))
		return buf.Bytes(), nil
	}

	mw := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(normalizeBody(msg.BodyText))); err != nil {
		return nil, err
	}

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(normalizeBody(msg.BodyHTML))); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// normalizeBody converts bare newlines to CRLF as required on the wire.
func normalizeBody(body string) string {
	if body == "" {
		return ""
	}
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.ReplaceAll(normalized, "\n", "\r\n")
}

// sanitizeHeaderValue strips CR/LF to prevent header injection.
func sanitizeHeaderValue(value string) string {
	clean := strings.ReplaceAll(value, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}

// Compile-time assertion that SMTPRelay satisfies MailProvider.
var _ MailProvider = (*SMTPRelay)(nil)
