package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"github.com/bher20/locadora/internal/logger"
	"github.com/bher20/locadora/internal/metrics"
	"github.com/bher20/locadora/internal/quote"
)

// ErrDisabled is returned when no email provider is configured.
var ErrDisabled = errors.New("notification: email not configured or disabled")

// Config selects and configures the email provider.
type Config struct {
	// Provider is "sendgrid", "smtp" or "none".
	Provider    string
	FromAddress string
	FromName    string

	SendgridAPIKey string
	// SendgridHost overrides the SendGrid API host.
	SendgridHost string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// Mailer delivers a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, to string, msg quote.Message) error
}

// Service emails quotations to customers.
type Service struct {
	provider string
	mailer   Mailer
	log      *slog.Logger
}

// NewService builds the mailer for cfg.Provider.
func NewService(cfg Config) (*Service, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	var m Mailer
	switch provider {
	case "", "none":
		provider = "none"
	case "sendgrid":
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("notification: sendgrid api key is required")
		}
		m = &SendgridMailer{APIKey: cfg.SendgridAPIKey, Host: cfg.SendgridHost, FromAddress: cfg.FromAddress, FromName: cfg.FromName}
	case "smtp":
		m = &SMTPMailer{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			Username: cfg.SMTPUsername, Password: cfg.SMTPPassword,
			FromAddress: cfg.FromAddress, FromName: cfg.FromName,
		}
	default:
		return nil, fmt.Errorf("notification: unknown provider: %s", cfg.Provider)
	}
	return NewServiceWithMailer(provider, m), nil
}

// NewServiceWithMailer wraps an existing Mailer. A nil mailer disables email.
func NewServiceWithMailer(provider string, m Mailer) *Service {
	return &Service{provider: provider, mailer: m, log: logger.With("notification")}
}

// Enabled reports whether emails can be sent.
func (s *Service) Enabled() bool { return s != nil && s.mailer != nil }

// Provider names the configured provider.
func (s *Service) Provider() string { return s.provider }

// SendQuote emails a quotation's message to the customer.
func (s *Service) SendQuote(ctx context.Context, to string, q *quote.Quotation) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if err := s.mailer.Send(ctx, to, q.Message); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(s.provider, "error").Inc()
		s.log.Error("notification: send failed", "reference", q.Reference, "provider", s.provider, "error", err)
		return fmt.Errorf("notification: send quote: %w", err)
	}
	metrics.EmailsSentTotal.WithLabelValues(s.provider, "sent").Inc()
	s.log.Info("notification: quote sent", "reference", q.Reference, "provider", s.provider)
	return nil
}

// SendgridMailer sends through the SendGrid v3 API.
type SendgridMailer struct {
	APIKey      string
	Host        string
	FromAddress string
	FromName    string
}

func (m *SendgridMailer) Send(ctx context.Context, to string, msg quote.Message) error {
	from := mail.NewEmail(m.FromName, m.FromAddress)
	email := mail.NewSingleEmail(from, msg.Subject, mail.NewEmail("", to), msg.Body, "")

	host := m.Host
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	req := sendgrid.GetRequest(m.APIKey, "/v3/mail/send", host)
	req.Method = "POST"
	req.Body = mail.GetRequestBody(email)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

func (m *SMTPMailer) Send(ctx context.Context, to string, msg quote.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return d.DialAndSend(m.message(to, msg))
}

func (m *SMTPMailer) message(to string, msg quote.Message) *gomail.Message {
	gm := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	gm.SetAddressHeader("From", m.FromAddress, m.FromName)
	gm.SetHeader("To", to)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	return gm
}
