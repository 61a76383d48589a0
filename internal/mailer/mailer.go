package mailer

import (
	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"food-donation-api-server/config"
)

// Mailer sends transactional email over SMTP. When SMTP is disabled in
// config, Send becomes a no-op so the rest of the server never has to care.
type Mailer struct {
	cfg config.SMTPConfig
	log zerolog.Logger
}

func New(cfg config.SMTPConfig, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// Send delivers a plain-text email to a single recipient. Failures are
// logged, not returned: mail is a courtesy, never part of a request's
// success criteria.
func (m *Mailer) Send(to, subject, body string) {
	if !m.cfg.Enabled {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")
	}
}
