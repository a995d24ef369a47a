package smtp

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"subtrack/internal/config"
)

// Transport dials the configured SMTP server, upgrades the connection
// with STARTTLS and authenticates.
type Transport struct {
	cfg config.SMTP
}

func NewTransport(cfg config.SMTP) *Transport {
	return &Transport{cfg: cfg}
}

func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"

	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tlsConfig := &tls.Config{ServerName: t.cfg.SMTPHost}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}
