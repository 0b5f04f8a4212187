// Package mail sends export documents over SMTP.
package mail

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"
)

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers documents as email attachments.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New constructs a Mailer from transport settings.
func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Deliver sends the attachment to the target address. Dialing happens per
// message; the worker sends rarely enough that a held connection is not
// worth the reconnect handling.
func (m *Mailer) Deliver(ctx context.Context, target string, attachment []byte, filename, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", target)
	msg.SetHeader("Subject", "Your playlist export")
	msg.SetBody("text/plain", "Attached is the export of songs from your playlist.")
	msg.Attach(filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
	)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send export email: %w", err)
	}
	return nil
}
