package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender logs emails instead of sending them, used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "recovery email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SMTPSender delivers through a plain SMTP relay with STARTTLS.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + body + "\r\n")

	addr := s.host + ":" + strconv.Itoa(s.port)
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// NewSender returns a LogSender for ENV=local, a ResendSender when a Resend
// API key is configured, and an SMTPSender otherwise.
func NewSender(env, resendAPIKey, resendFrom string, smtpCfg SMTPConfig, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger}
	}
	if resendAPIKey != "" {
		return &ResendSender{
			client: resend.NewClient(resendAPIKey),
			from:   resendFrom,
		}
	}
	return &SMTPSender{
		host: smtpCfg.Host,
		port: smtpCfg.Port,
		user: smtpCfg.User,
		pass: smtpCfg.Pass,
		from: smtpCfg.From,
	}
}
