package otp

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var otpMailTemplate = template.Must(template.ParseFS(templateFS, "templates/otp_email.html"))

// Notifier delivers a code to the owner of email
type Notifier interface {
	Send(ctx context.Context, email, code string) error
}

// SendMailFunc matches smtp.SendMail
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPConfig holds the mail relay settings
type SMTPConfig struct {
	Host     string
	Port     string
	Account  string
	Password string
	From     string
	AppName  string
}

// SMTPNotifier mails the code as an HTML message
type SMTPNotifier struct {
	cfg      SMTPConfig
	sendMail SendMailFunc
}

var _ Notifier = (*SMTPNotifier)(nil)

type SMTPOption func(*SMTPNotifier)

// WithSendMail replaces smtp.SendMail (primarily for testing)
func WithSendMail(fn SendMailFunc) SMTPOption {
	return func(n *SMTPNotifier) {
		n.sendMail = fn
	}
}

func NewSMTPNotifier(cfg SMTPConfig, options ...SMTPOption) *SMTPNotifier {
	if cfg.From == "" {
		cfg.From = cfg.Account
	}
	n := &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// Send renders the mail and hands it to the relay. smtp.SendMail has no
// context support so the call is abandoned, not aborted, when ctx ends.
func (n *SMTPNotifier) Send(ctx context.Context, email, code string) error {
	msg, err := n.message(email, code)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Account != "" {
		auth = smtp.PlainAuth("", n.cfg.Account, n.cfg.Password, n.cfg.Host)
	}
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)

	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(addr, auth, n.cfg.From, []string{email}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, "[SMTPNotifier.Send] relay rejected message")
		}
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "[SMTPNotifier.Send] gave up waiting for relay")
	}
}

func (n *SMTPNotifier) message(email, code string) ([]byte, error) {
	var body bytes.Buffer
	if err := otpMailTemplate.Execute(&body, struct {
		AppName string
		Code    string
	}{AppName: n.cfg.AppName, Code: code}); err != nil {
		return nil, errors.Wrap(err, "[SMTPNotifier.message] failed to render mail")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	fmt.Fprintf(&msg, "Subject: Your OTP for %s\r\n", n.cfg.AppName)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body.Bytes())
	return []byte(msg.String()), nil
}

// LogNotifier writes codes to the log instead of sending them. Development only.
// Codes are logged at info so the default level shows them.
type LogNotifier struct {
	logger zerolog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, email, code string) error {
	n.logger.Info().Str("email", email).Str("otp", code).Msg("OTP issued")
	return nil
}
