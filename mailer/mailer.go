package mailer

import (
	"net/smtp"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"
)

type Mailer interface {
	QuickSend(to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Email    string
	Password string
}

type smtpMailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) QuickSend(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.cfg.Email
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(body)

	hostAndPort := strings.Join([]string{
		m.cfg.Host,
		strconv.Itoa(m.cfg.Port),
	}, ":")

	plainAuth := smtp.PlainAuth(
		"", // identity
		m.cfg.Email,
		m.cfg.Password,
		m.cfg.Host,
	)

	return e.Send(hostAndPort, plainAuth)
}
