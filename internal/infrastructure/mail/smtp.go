package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mercatino/vendor-api/internal/core/ports"
)

// SMTPMailer delivers mail through a plain SMTP relay. No authentication is
// performed; the relay address comes from configuration.
type SMTPMailer struct {
	addr string
}

func NewSMTPMailer(addr string) *SMTPMailer {
	return &SMTPMailer{addr: addr}
}

var _ ports.Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, msg ports.Mail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Text)

	if err := smtp.SendMail(m.addr, nil, msg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
