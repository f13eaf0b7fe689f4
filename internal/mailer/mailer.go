// Package mailer sends notification email over SMTP.
package mailer

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/rovenna/vessel-audit/internal/config"
)

// Mailer delivers plain-text messages through one SMTP account. Send
// retries transient failures with exponential backoff before giving up.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Mailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &Mailer{dialer: d, from: cfg.SMTPFrom, log: log}
}

// Send delivers one message. SMTP hiccups are retried for up to half a
// minute; the last error is returned when the budget runs out.
func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxElapsedTime = 30 * time.Second

	err := backoff.Retry(func() error {
		if err := m.dialer.DialAndSend(msg); err != nil {
			m.log.Warn("smtp send failed, retrying",
				zap.String("to", to), zap.Error(err))
			return err
		}
		return nil
	}, policy)
	if err != nil {
		m.log.Error("smtp send gave up", zap.String("to", to), zap.Error(err))
		return err
	}
	m.log.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
