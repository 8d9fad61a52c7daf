package utils

import (
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer sends notification mail. A nil Mailer (SMTP not configured)
// silently drops messages so callers never have to branch.
type Mailer struct {
	host     string
	port     int
	username string
	password string
}

func NewMailer(host string, port int, username, password string) *Mailer {
	if host == "" || username == "" {
		return nil
	}
	return &Mailer{host: host, port: port, username: username, password: password}
}

// Send delivers a single HTML message.
func (m *Mailer) Send(to string, subject string, body string) error {
	if m == nil {
		return nil
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", m.username)
	mailer.SetHeader("To", to)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)

	if err := dialer.DialAndSend(mailer); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}

	return nil
}
