package mail

import (
	"context"
	"errors"
	"strings"

	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/mail"
)

// SMTPConfig describes the SMTP endpoint used for delivery.
type SMTPConfig struct {
	Host     string
	Port     string
	Identity string
	Username string
	Password string
	Sender   string
}

// SMTPTransport delivers drafted messages over SMTP.
type SMTPTransport struct {
	cfg SMTPConfig
}

func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(cfg.Sender) == "" {
		return nil, errors.New("smtp sender address is required")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "587"
	}

	return &SMTPTransport{cfg: cfg}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, recipient, subject, message string) error {
	smtp := mail.New(t.cfg.Sender, t.cfg.Host+":"+t.cfg.Port)
	smtp.AuthenticateSMTP(t.cfg.Identity, t.cfg.Username, t.cfg.Password, t.cfg.Host)
	smtp.BodyFormat(mail.PlainText)
	smtp.AddReceivers(recipient)

	ntf := notify.New()
	ntf.UseServices(smtp)

	return ntf.Send(ctx, subject, message)
}
