package mailer

import (
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/config"
	"gopkg.in/gomail.v2"
)

// Message is one outbound mail. HTML is optional.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// SMTPMailer sends mail through the configured SMTP account. Without
// credentials it only logs what it would have sent.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	m := &SMTPMailer{from: cfg.EmailUser}
	if cfg.EmailConfigured() {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword)
	}
	return m
}

func (m *SMTPMailer) Configured() bool {
	return m.dialer != nil
}

func (m *SMTPMailer) Send(msg Message) error {
	if m.dialer == nil {
		slog.Info("email not configured, skipping send",
			"action", "mailer.send",
			"to", msg.To,
			"subject", msg.Subject,
		)
		return nil
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}
