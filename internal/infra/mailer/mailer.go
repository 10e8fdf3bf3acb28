package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mail "github.com/wneessen/go-mail"
	"golang.org/x/time/rate"

	"signalist/internal/config"
	"signalist/internal/observability/metrics"
)

// Mailer delivers digest and welcome emails over SMTP. It satisfies the
// digest and signup mailer ports.
type Mailer struct {
	client  *mail.Client
	app     *config.AppConfig
	limiter *rate.Limiter
}

// NewMailer creates an SMTP mailer from the given connection and
// application configuration.
func NewMailer(cfg Config, app *config.AppConfig) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	slog.Info("Initialized SMTP mailer",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("from", app.From()))

	return &Mailer{
		client:  client,
		app:     app,
		limiter: rate.NewLimiter(cfg.SendRatePerSecond, 1),
	}, nil
}

// SendWelcomeEmail sends the onboarding email to a new user. The intro
// is the personalized greeting line rendered into the welcome template.
func (m *Mailer) SendWelcomeEmail(ctx context.Context, email, name, intro string) error {
	if name == "" {
		name = "there"
	}

	html := renderWelcomeEmail(name, intro)
	return m.send(ctx, "welcome", email, m.app.Mail.Subjects.Welcome, html, welcomeTextBody)
}

// SendNewsSummaryEmail sends one daily digest email. The summary is an
// HTML fragment produced by the AI summarizer and date is the
// human-readable digest date used in the subject and body.
func (m *Mailer) SendNewsSummaryEmail(ctx context.Context, email, date, summary string) error {
	html := renderNewsSummaryEmail(date, summary)
	return m.send(ctx, "news_digest", email, m.app.NewsDigestSubject(date), html, plainTextFallback(summary))
}

// buildMessage assembles one multipart message with a plain-text body and
// an HTML alternative.
func (m *Mailer) buildMessage(to, subject, html, text string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.app.From()); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set recipient %s: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

// send builds and delivers one message, recording dispatch metrics.
// kind labels the email category for observability.
func (m *Mailer) send(ctx context.Context, kind, to, subject, html, text string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	msg, err := m.buildMessage(to, subject, html, text)
	if err != nil {
		return err
	}

	start := time.Now()
	err = m.client.DialAndSendWithContext(ctx, msg)
	duration := time.Since(start)

	metrics.RecordEmailSent(kind, err == nil, duration)

	if err != nil {
		slog.ErrorContext(ctx, "Email delivery failed",
			slog.String("kind", kind),
			slog.String("to", to),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return fmt.Errorf("deliver %s email: %w", kind, err)
	}

	slog.InfoContext(ctx, "Email delivered",
		slog.String("kind", kind),
		slog.String("to", to),
		slog.Duration("duration", duration))

	return nil
}
