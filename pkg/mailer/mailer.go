package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	contractx "github.com/attache-labs/attache/agent/contract"
)

type Config struct {
	Host     string `split_words:"true" default:"smtp.gmail.com"`
	Port     int    `split_words:"true" default:"587"`
	Username string `split_words:"true" required:"true"`
	Password string `split_words:"true" required:"true"`
}

// Sender delivers assembled emails over SMTP with STARTTLS.
type Sender struct {
	addr     string
	host     string
	username string
	password string
}

func NewSender(cfg Config) (*Sender, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("smtp port must be positive")
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		return nil, errors.New("smtp username is required")
	}

	return &Sender{
		addr:     net.JoinHostPort(host, strconv.Itoa(cfg.Port)),
		host:     host,
		username: username,
		password: cfg.Password,
	}, nil
}

// Send delivers the email and reports the outcome without raising past the
// transport boundary.
func (s *Sender) Send(ctx context.Context, req contractx.EmailRequest) (contractx.DeliveryResult, error) {
	if err := ctx.Err(); err != nil {
		return contractx.DeliveryResult{Success: false, Message: err.Error()}, err
	}

	recipient := extractAddress(req.Recipient)
	if recipient == "" {
		return contractx.DeliveryResult{Success: false, Message: "recipient address is empty"},
			errors.New("recipient address is empty")
	}

	msg := buildMessage(req)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(s.addr, auth, s.username, []string{recipient}, msg); err != nil {
		return contractx.DeliveryResult{
			Success: false,
			Message: fmt.Sprintf("failed to send email: %v", err),
		}, err
	}

	return contractx.DeliveryResult{Success: true, Message: "Email sent successfully"}, nil
}

func buildMessage(req contractx.EmailRequest) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", req.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", req.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", req.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(req.Content)
	return []byte(b.String())
}

// extractAddress pulls the bare address out of a "Name <email>" display
// string; a bare address passes through unchanged.
func extractAddress(display string) string {
	display = strings.TrimSpace(display)
	if open := strings.LastIndex(display, "<"); open >= 0 {
		if close := strings.LastIndex(display, ">"); close > open {
			return strings.TrimSpace(display[open+1 : close])
		}
	}
	return display
}
