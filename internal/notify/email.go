// Package notify builds department alert messages and delivers them over
// SMTP. Delivery is best-effort: every Send returns a human-readable outcome
// string alongside any error, and callers treat a failed send as a
// diagnostic, never as a reason to roll back stored data.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

// Dispatcher sends a formatted alert. Implementations own their transport's
// timeout and retry policy; callers make exactly one synchronous attempt.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, body, cc string) (string, error)
}

// SMTPDispatcher delivers alerts through an authenticated STARTTLS SMTP
// server. When credentials are missing it runs in report-only mode and
// returns the message it would have sent.
type SMTPDispatcher struct {
	host     string
	port     int
	user     string
	password string
	enabled  bool
	log      zerolog.Logger
}

func NewSMTPDispatcher(host string, port int, user, password string, enabled bool, logger zerolog.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		enabled:  enabled,
		log:      logger,
	}
}

// Send delivers one HTML alert. The returned string is always populated with
// an outcome message suitable for surfacing to staff.
func (d *SMTPDispatcher) Send(ctx context.Context, to, subject, body, cc string) (string, error) {
	d.log.Info().Str("to", to).Str("subject", subject).Msg("sending alert email")

	if !d.enabled {
		msg := fmt.Sprintf("Email disabled. Would send to %s: %s", to, subject)
		d.log.Info().Msg(msg)
		return msg, nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.user)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if cc != "" {
		m.SetHeader("Cc", cc)
	}
	m.SetBody("text/html", body)

	dialer := gomail.NewDialer(d.host, d.port, d.user, d.password)
	if err := dialer.DialAndSend(m); err != nil {
		msg := fmt.Sprintf("Failed to send email: %v", err)
		d.log.Error().Err(err).Str("to", to).Msg("alert email failed")
		return msg, fmt.Errorf("send email to %s: %w", to, err)
	}

	msg := fmt.Sprintf("Email sent successfully to %s", to)
	d.log.Info().Str("to", to).Msg("alert email sent")
	return msg, nil
}
