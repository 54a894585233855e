// Package mailer delivers the confirmation and password-reset emails. All
// sends are fire-and-forget: the HTTP request that triggered them never
// waits on, nor fails because of, SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contacts/internal/observability/metrics"

	"github.com/sethvargo/go-retry"
	"github.com/wneessen/go-mail"
)

const (
	sendTimeout = 30 * time.Second
	maxAttempts = 3
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string // link prefix for confirmation/reset URLs
}

type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		BaseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}}
}

// SendConfirmation dispatches the email-confirmation link in the background.
func (m *Mailer) SendConfirmation(ctx context.Context, to, username, token string) {
	link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening the link below:\n\n%s\n", username, link)
	m.dispatch("confirmation", to, "Confirm your email", body)
}

// SendPasswordReset dispatches the password-reset link in the background.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) {
	link := fmt.Sprintf("%s/password-reset/%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf("A password reset was requested for this address. Open the link below to set a new password:\n\n%s\n\nIf you did not request this, ignore this message.\n", link)
	m.dispatch("password_reset", to, "Reset your password", body)
}

// dispatch delivers asynchronously with a bounded backoff. The goroutine
// gets its own context: cancellation of the originating request must not
// abandon the email.
func (m *Mailer) dispatch(kind, to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(500*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			return retry.RetryableError(m.send(to, subject, body))
		})
		if err != nil {
			metrics.EmailsSentTotal.WithLabelValues(kind, "failure").Inc()
			slog.Error("email delivery failed", "kind", kind, "to", to, "error", err)
			return
		}
		metrics.EmailsSentTotal.WithLabelValues(kind, "success").Inc()
		slog.Info("email delivered", "kind", kind, "to", to)
	}()
}

func (m *Mailer) send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}
