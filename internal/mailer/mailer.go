// Package mailer delivers the transactional and summary emails.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"fincheck/internal/config"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends email messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when SMTP_HOST is configured, otherwise a
// mailer that only logs what it would have sent.
func New(cfg *config.Config, log *zap.SugaredLogger) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{log: log}
	}
	return &SMTPMailer{
		Addr:     net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		Host:     cfg.SMTPHost,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	Addr     string
	Host     string
	Username string
	Password string
	From     string

	// sendMail is swapped in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Send delivers msg. The context only bounds the wait; net/smtp cannot be
// interrupted once a session has started.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	from, err := mail.ParseAddress(m.From)
	if err != nil {
		return fmt.Errorf("parse sender %q: %w", m.From, err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("parse recipient %q: %w", msg.To, err)
	}

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	send := m.sendMail
	if send == nil {
		send = smtp.SendMail
	}

	body := buildMIME(from, to, msg.Subject, msg.HTML, time.Now())
	done := make(chan error, 1)
	go func() { done <- send(m.Addr, auth, from.Address, []string{to.Address}, body) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", to.Address, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMIME(from, to *mail.Address, subject, html string, now time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", to.String())
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(html, "\n", "\r\n"))
	return b.Bytes()
}

// LogMailer logs messages instead of sending them.
type LogMailer struct {
	log *zap.SugaredLogger
}

// NewLogMailer creates a LogMailer writing to log.
func NewLogMailer(log *zap.SugaredLogger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the recipient and subject.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Infow("email not sent, SMTP is not configured",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
