package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medisetu/portal-api/internal/config"
)

// Service sends portal notification mail.
type Service interface {
	SendWelcome(to, name string) error
}

type smtpService struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

// NewSMTPService builds the mailer from config. When disabled, sends are
// silent no-ops so local setups need no SMTP server.
func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		enabled: cfg.Enabled,
	}
}

func (s *smtpService) SendWelcome(to, name string) error {
	if !s.enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to the portal")
	m.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nYour account has been created.\n", name))

	return s.dialer.DialAndSend(m)
}
