// Package mailer delivers the digest over authenticated STARTTLS SMTP.
package mailer

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"

	"jobdigest/internal/config"

	"gopkg.in/gomail.v2"
)

// Subject is the fixed subject line of every digest.
const Subject = "Daily Testing Roles @12 PM"

// MailError wraps any connect, TLS, auth or send failure.
type MailError struct {
	Host string
	Port int
	Err  error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("mail via %s:%d: %v", e.Host, e.Port, e.Err)
}

func (e *MailError) Unwrap() error { return e.Err }

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Config struct {
	Host     string
	Port     int
	User     string // also the From and To address
	Password string
}

func ConfigFrom(cfg config.Config) Config {
	return Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		User:     cfg.Mail.User,
		Password: cfg.Mail.Password,
	}
}

type Mailer struct {
	cfg    Config
	sender Sender
}

// New returns a Mailer using a gomail dialer that refuses to
// authenticate without STARTTLS.
func New(cfg Config) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	// NewDialer switches to implicit TLS on port 465; STARTTLS is the only mode.
	d.SSL = false
	d.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	d.Auth = requireTLS{smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)}
	return &Mailer{cfg: cfg, sender: d}
}

// requireTLS refuses to hand credentials to a server that did not upgrade
// the session (gomail only issues STARTTLS when it is advertised).
type requireTLS struct{ smtp.Auth }

func (a requireTLS) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, errors.New("server did not offer STARTTLS; refusing to authenticate")
	}
	return a.Auth.Start(server)
}

// NewWithSender is New with an injected transport.
func NewWithSender(cfg Config, s Sender) *Mailer {
	return &Mailer{cfg: cfg, sender: s}
}

// Message builds the self-addressed plain-text digest email.
func (m *Mailer) Message(body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("To", m.cfg.User)
	msg.SetHeader("Subject", Subject)
	msg.SetBody("text/plain", body)
	return msg
}

// Send delivers body in a single attempt.
func (m *Mailer) Send(body string) error {
	if m.cfg.Host == "" || m.cfg.User == "" {
		return &MailError{Host: m.cfg.Host, Port: m.cfg.Port, Err: errors.New("mail host and account are required")}
	}
	if err := m.sender.DialAndSend(m.Message(body)); err != nil {
		return &MailError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
	}
	return nil
}
