package infra

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"net/textproto"
	"strings"

	"stockwatch/internal/config"

	"github.com/jordan-wright/email"
)

// ErrSMTPAuth marks an SMTP authentication rejection. Unlike a per-recipient
// delivery failure, it means every send in the current run will fail, so the
// bulk sender aborts the whole run when it sees this.
var ErrSMTPAuth = errors.New("smtp authentication failed")

// Mailer wraps SMTP configuration for sending dual-content (HTML + plain)
// notification emails.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	fromName string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		fromName: cfg.FromName,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Send delivers one email with both HTML and plain-text bodies.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.fromName, m.user)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(textBody)
	e.HTML = []byte(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := e.Send(m.addr, auth); err != nil {
		if isAuthReply(err) {
			return fmt.Errorf("%w: %v", ErrSMTPAuth, err)
		}
		return err
	}
	return nil
}

// isAuthReply recognizes the SMTP reply codes servers use to reject
// credentials (530/534/535).
func isAuthReply(err error) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code == 530 || tpErr.Code == 534 || tpErr.Code == 535
	}
	msg := err.Error()
	return strings.Contains(msg, "535 ") || strings.Contains(msg, "534 ") ||
		strings.Contains(msg, "Username and Password not accepted")
}
