package queue

import (
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
)

// MailSender delivers one plain-text email.
type MailSender interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay with gomail.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := newMessage(m.from, to, subject, body)
	return m.dialer.DialAndSend(msg)
}

func newMessage(from, to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
