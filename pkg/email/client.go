package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages. Client is the SMTP implementation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// Secure dials implicit TLS (port 465 style) instead of relying on STARTTLS.
	Secure bool
}

// Client sends mail over SMTP.
type Client struct {
	cfg     Config
	timeout time.Duration
}

// NewClient creates a new email client.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, timeout: 15 * time.Second}
}

// Send wraps the HTML body in the layout and delivers the message.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	body, err := renderLayout(msg.HTML)
	if err != nil {
		return err
	}

	raw := buildMessage(c.from(), msg.To, msg.Subject, body, msg.Text)

	done := make(chan error, 1)
	go func() { done <- c.deliver(msg.To, []byte(raw)) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}
}

func (c *Client) from() string {
	if c.cfg.From != "" {
		return c.cfg.From
	}
	return "noreply@example.com"
}

func (c *Client) deliver(to string, raw []byte) error {
	addr := net.JoinHostPort(c.cfg.Host, c.cfg.Port)
	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}

	if !c.cfg.Secure {
		return smtp.SendMail(addr, auth, c.from(), []string{to}, raw)
	}

	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: c.cfg.Host, MinVersion: tls.VersionTLS12})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(c.from()); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

const boundary = "course-marketplace-boundary"

func buildMessage(from, to, subject, html, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	if text != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(text + "\r\n")
	}

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(html + "\r\n")
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
