// Package notify delivers order notifications to shopkeepers.
package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/grosnap/backend/internal/domain"
)

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier sends notifications as plain-text email
type EmailNotifier struct {
	cfg    SMTPConfig
	send   sendFunc
	now    func() time.Time
	logger zerolog.Logger
}

// NewEmailNotifier creates an SMTP notifier
func NewEmailNotifier(cfg SMTPConfig, logger *zerolog.Logger) *EmailNotifier {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &EmailNotifier{
		cfg:    cfg,
		send:   smtp.SendMail,
		now:    time.Now,
		logger: l.With().Str("component", "email").Logger(),
	}
}

// Notify sends n to its destination address. The SMTP exchange is not
// cancellable once started; ctx is only checked before dialing.
func (e *EmailNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(n.Destination) == "" {
		return fmt.Errorf("%w: email destination is required", domain.ErrInvalidInput)
	}

	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))
	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	msg := e.buildMessage(n)
	if err := e.send(addr, auth, e.cfg.From, []string{n.Destination}, msg); err != nil {
		return fmt.Errorf("%w: smtp: %v", domain.ErrUpstreamFailure, err)
	}

	e.logger.Info().Str("to", n.Destination).Str("subject", n.Subject).Msg("Email sent")
	return nil
}

func (e *EmailNotifier) buildMessage(n domain.Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", n.Destination)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(n.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", e.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(n.Message, "\n", "\r\n"))
	return []byte(b.String())
}

// sanitizeHeader keeps a header value on one line
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
