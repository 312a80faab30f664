package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"sally/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultResendURL = "https://api.resend.com"

// EmailMessage is a rendered email ready for a transport.
type EmailMessage struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

func (m EmailMessage) validate() error {
	if len(m.To) == 0 {
		return errors.New("email has no recipients")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("email has no subject")
	}
	return nil
}

// EmailTransport delivers a message synchronously.
type EmailTransport interface {
	Send(ctx context.Context, msg EmailMessage) error
	Name() string
}

// NewEmailTransport picks Resend, then SMTP, then the console logger.
func NewEmailTransport(cfg config.EmailConfig, log *zap.Logger) EmailTransport {
	switch cfg.EmailTransport() {
	case "resend":
		return NewResendTransport(cfg.ResendURL, cfg.ResendAPIKey, cfg.From, log)
	case "smtp":
		return NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
	default:
		return NewConsoleTransport(log)
	}
}

type resendTransport struct {
	client *resty.Client
	from   string
	log    *zap.Logger
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func NewResendTransport(baseURL, apiKey, from string, log *zap.Logger) EmailTransport {
	if baseURL == "" {
		baseURL = defaultResendURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &resendTransport{client: client, from: from, log: log}
}

func (t *resendTransport) Name() string { return "resend" }

func (t *resendTransport) Send(ctx context.Context, msg EmailMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}

	var out resendResponse
	var apiErr resendError
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(resendRequest{From: t.from, To: msg.To, Subject: msg.Subject, HTML: msg.HTML, Text: msg.Text}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("failed to call resend: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend rejected email (status %d): %s", resp.StatusCode(), apiErr.Message)
	}

	t.log.Debug("email sent via resend", zap.String("id", out.ID), zap.Strings("to", msg.To))
	return nil
}

type smtpTransport struct {
	addr string
	auth smtp.Auth
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPTransport(host string, port int, user, password, from string) EmailTransport {
	if port == 0 {
		port = 587
	}
	return &smtpTransport{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		auth: smtp.PlainAuth("", user, password, host),
		from: from,
		send: smtp.SendMail,
	}
}

func (t *smtpTransport) Name() string { return "smtp" }

func (t *smtpTransport) Send(_ context.Context, msg EmailMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if err := t.send(t.addr, t.auth, t.from, msg.To, buildMIME(t.from, msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// buildMIME renders a multipart/alternative message with text and HTML parts.
func buildMIME(from string, msg EmailMessage) []byte {
	const boundary = "sally-alt-boundary"
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + encodeSubject(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text + "\r\n")

	if msg.HTML != "" {
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTML + "\r\n")
	}
	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

// encodeSubject folds line breaks to spaces and RFC 2047 encodes anything
// outside printable ASCII so a subject can never start a new header.
func encodeSubject(subject string) string {
	subject = strings.Join(strings.FieldsFunc(subject, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
	return mime.QEncoding.Encode("utf-8", subject)
}

type consoleTransport struct {
	log *zap.Logger
}

// NewConsoleTransport logs emails instead of sending them. Used in development.
func NewConsoleTransport(log *zap.Logger) EmailTransport {
	return &consoleTransport{log: log}
}

func (t *consoleTransport) Name() string { return "console" }

func (t *consoleTransport) Send(_ context.Context, msg EmailMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	t.log.Info("email (console transport)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
