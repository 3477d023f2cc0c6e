package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends through a plain SMTP relay (gmail app passwords in the
// original deployment).
type SMTPMailer struct {
	cfg  SMTPConfig
	auth smtp.Auth
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	var b strings.Builder

	fmt.Fprintf(&b, "From: True Home <%s>\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	// net/smtp has no context support; run the dial+send in a goroutine so a
	// canceled caller is not held hostage by a slow relay.
	done := make(chan error, 1)

	go func() {
		done <- smtp.SendMail(addr, m.auth, m.cfg.From, []string{msg.To}, []byte(b.String()))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
