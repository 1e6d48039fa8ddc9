// Package mail delivers account notification emails over SMTP, rendering the
// bodies from embedded HTML templates.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"net/smtp"
	"strconv"
	"time"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/mataure/storefront/auth"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	subjectVerification  = "Verify Your Email"
	subjectPasswordReset = "Reset Your Password"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the envelope and header sender, e.g. no-reply@storefront.local
	From string
}

// SMTPMailer renders account emails and hands them to an SMTP relay.
type SMTPMailer struct {
	cfg    Config
	engine *django.Engine
	logger auth.Logger
}

var _ auth.Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg Config, logger auth.Logger) (*SMTPMailer, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{cfg: cfg, engine: engine, logger: logger}, nil
}

func newEngine() (*django.Engine, error) {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open mail templates")
	}

	engine := django.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load mail templates")
	}

	return engine, nil
}

func (m *SMTPMailer) SendVerification(ctx context.Context, email, link string) error {
	return m.send(ctx, email, subjectVerification, "verification", map[string]any{"link": link})
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	return m.send(ctx, email, subjectPasswordReset, "reset_password", map[string]any{"link": link})
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, template string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "context cancelled before mail send")
	}

	body, err := m.render(template, data)
	if err != nil {
		return err
	}

	msg := buildMessage(m.cfg.From, to, subject, body)

	var smtpAuth smtp.Auth
	if m.cfg.Username != "" {
		smtpAuth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := smtp.SendMail(addr, smtpAuth, m.cfg.From, []string{to}, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "smtp delivery failed").
			WithMetadata(map[string]any{"relay": addr})
	}

	if m.logger != nil {
		m.logger.Debug("mail sent", "to", to, "subject", subject)
	}

	return nil
}

func (m *SMTPMailer) render(template string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := m.engine.Render(&buf, template, data); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render mail template").
			WithMetadata(map[string]any{"template": template})
	}
	return buf.String(), nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@storefront>\r\n", uuid.NewString())
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// NoopMailer logs the would-be emails instead of sending them. Used when no
// SMTP relay is configured, so local development never needs one.
type NoopMailer struct {
	Logger auth.Logger
}

var _ auth.Mailer = (*NoopMailer)(nil)

func (m NoopMailer) SendVerification(_ context.Context, email, link string) error {
	if m.Logger != nil {
		m.Logger.Info("mail disabled, verification link not sent", "to", email, "link", link)
	}
	return nil
}

func (m NoopMailer) SendPasswordReset(_ context.Context, email, link string) error {
	if m.Logger != nil {
		m.Logger.Info("mail disabled, reset link not sent", "to", email, "link", link)
	}
	return nil
}
