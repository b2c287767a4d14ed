// Package notify renders and sends the pipeline email notifications.
// It supplies the custom failure/success templates applied when a pipeline
// run finishes, and the SMTP transport behind a narrow Sender interface.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a single rendered notification addressed to one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered notification. Tests substitute a fake;
// production uses SMTPSender.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages over SMTP with optional PLAIN auth.
type SMTPSender struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

// NewSMTPSender creates a sender for the server at addr ("host:port").
// Username may be empty for unauthenticated relays.
func NewSMTPSender(addr, username, password, from string) *SMTPSender {
	host := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
	}
	return &SMTPSender{
		addr:     addr,
		host:     host,
		username: username,
		password: password,
		from:     from,
	}
}

// Send implements Sender over net/smtp.
// The context is accepted for interface symmetry; net/smtp does not support
// cancellation mid-send, so it is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	if err := smtp.SendMail(s.addr, auth, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
