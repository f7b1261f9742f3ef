package notification

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"storefront/internal/core/domain/model/notification"
)

// SMTPConfig addresses the mail relay. Auth is used when User is set.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier delivers rendered emails through an SMTP relay.
type SMTPNotifier struct {
	addr      string
	auth      smtp.Auth
	from      string
	catalogue *Catalogue
	sendMail  sendMailFunc
	now       func() time.Time
}

func NewSMTPNotifier(cfg SMTPConfig, catalogue *Catalogue) *SMTPNotifier {
	port := cfg.Port
	if port == "" {
		port = "25"
	}

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	return &SMTPNotifier{
		addr:      net.JoinHostPort(cfg.Host, port),
		auth:      auth,
		from:      cfg.From,
		catalogue: catalogue,
		sendMail:  smtp.SendMail,
		now:       time.Now,
	}
}

// Send returns sent=false without error when the recipient has no email
// address. net/smtp does not take a context, so the call is abandoned (not
// cancelled) when ctx ends first.
func (n *SMTPNotifier) Send(ctx context.Context, template string, vars notification.Variables, to notification.Recipient) (bool, error) {
	if to.Email == "" {
		return false, nil
	}

	email, err := n.catalogue.Render(template, vars)
	if err != nil {
		return false, err
	}
	msg := n.compose(email, to)

	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(n.addr, n.auth, n.from, []string{to.Email}, msg)
	}()

	select {
	case err = <-done:
		if err != nil {
			return false, fmt.Errorf("smtp send to %s: %w", to.Email, err)
		}
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (n *SMTPNotifier) compose(email Email, to notification.Recipient) []byte {
	recipient := to.Email
	if to.Name != "" {
		recipient = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", to.Name), to.Email)
	}

	var b strings.Builder
	b.WriteString("From: " + n.from + "\r\n")
	b.WriteString("To: " + recipient + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n")
	b.WriteString("Date: " + n.now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(email.Body, "\n", "\r\n"))
	return []byte(b.String())
}
