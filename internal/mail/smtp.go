package mail

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host, port, user, password, from string) (*SMTPMailer, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("mail: invalid SMTP port %q: %w", port, err)
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, p, user, password),
		from:   from,
	}, nil
}

func (m *SMTPMailer) Send(to, subject, buttonLink, buttonText, purpose string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", renderBody(subject, buttonLink, buttonText, purpose))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
