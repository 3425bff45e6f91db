package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"melodix/internal/config"
	"melodix/internal/models"

	"github.com/rs/zerolog"
)

const (
	subjectPasswordReset = "Réinitialisation de votre mot de passe - Melodix"
	subjectContact       = "Votre message a bien été reçu - Melodix"

	dialTimeout = 8 * time.Second
	smtpTimeout = 15 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func SMTPConfigFrom(cfg config.Config) SMTPConfig {
	return SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}
}

func (c SMTPConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Mailer renders the HTML mails and sends them over SMTP.
type Mailer struct {
	cfg       SMTPConfig
	templates *template.Template
	logger    zerolog.Logger
	send      func(ctx context.Context, to string, msg []byte) error
	now       func() time.Time
}

func NewMailer(cfg SMTPConfig, logger zerolog.Logger) (*Mailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp transport needs SMTP_HOST and SMTP_FROM")
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	m := &Mailer{cfg: cfg, templates: tmpl, logger: logger, now: time.Now}
	m.send = m.sendSMTP
	return m, nil
}

func (m *Mailer) PasswordResetRequested(ctx context.Context, evt models.PasswordResetEvent) error {
	body, err := m.render("reset-password.html", evt)
	if err != nil {
		return err
	}
	return m.deliver(ctx, evt.Email, subjectPasswordReset, body)
}

func (m *Mailer) ContactReceived(ctx context.Context, evt models.ContactEvent) error {
	body, err := m.render("contact-confirmation.html", evt)
	if err != nil {
		return err
	}
	return m.deliver(ctx, evt.Email, subjectContact, body)
}

func (m *Mailer) Close() error { return nil }

func (m *Mailer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (m *Mailer) deliver(ctx context.Context, to, subject, body string) error {
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	m.logger.Info().Str("to", to).Str("via", m.cfg.addr()).Msg("Sending email")
	if err := m.send(ctx, to, m.buildMessage(to, subject, body)); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("Error sending email")
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info().Str("to", to).Msg("Email sent")
	return nil
}

func (m *Mailer) buildMessage(to, subject, body string) []byte {
	from := (&mail.Address{Name: m.cfg.FromName, Address: m.cfg.From}).String()

	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + m.now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body,
	}, "\r\n"))
}

func (m *Mailer) sendSMTP(ctx context.Context, to string, msg []byte) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.cfg.addr())
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(smtpTimeout))

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
