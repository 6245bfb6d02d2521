package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathakanu/remindmail/internal/config"
	"github.com/pathakanu/remindmail/internal/model"
	"github.com/pathakanu/remindmail/internal/notify"
	"github.com/wneessen/go-mail"
)

// SMTP sends notifications through an authenticated SMTP account.
type SMTP struct {
	client   *mail.Client
	from     string
	fromName string
}

// New creates an SMTP transport. Port 465 uses implicit TLS, any other port requires STARTTLS.
func New(cfg config.SMTPConfig) (*SMTP, error) {
	if strings.TrimSpace(cfg.Username) == "" {
		return nil, fmt.Errorf("smtp sender address is not configured")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTP{client: client, from: cfg.Username, fromName: cfg.FromName}, nil
}

func (s *SMTP) Channel() model.Channel { return model.ChannelEmail }

// Send delivers msg in a single SMTP session.
func (s *SMTP) Send(ctx context.Context, msg notify.Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTP) build(msg notify.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("smtp from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	if msg.TextBody != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.TextBody)
	}
	return m, nil
}
