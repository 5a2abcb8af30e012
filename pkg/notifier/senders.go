package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"time"

	"go.uber.org/zap"
)

// SMTPConfig holds the email transport settings. Port 465 implicit TLS.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

// SMTPSender delivers HTML email over an implicit-TLS SMTP connection.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, html string) error {
	from := s.cfg.Username
	fromHeader := from
	if s.cfg.FromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", s.cfg.FromName, from)
	}

	msg := []byte(
		fmt.Sprintf("From: %s\r\n", fromHeader) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			html,
	)

	serverAddr := s.cfg.Host + ":" + s.cfg.Port

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return nil
}

// SMSConfig holds the HTTP SMS gateway settings.
type SMSConfig struct {
	BaseURL       string
	APIKey        string
	SenderID      string
	SigningSecret string
}

// HTTPSMSSender posts to a gateway API, signing each request body with
// HMAC-SHA256 so the gateway can verify origin.
type HTTPSMSSender struct {
	cfg    SMSConfig
	client *http.Client
	logger *zap.Logger
}

func NewHTTPSMSSender(cfg SMSConfig, logger *zap.Logger) *HTTPSMSSender {
	return &HTTPSMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (s *HTTPSMSSender) SendSMS(ctx context.Context, to, body string) error {
	if s.cfg.BaseURL == "" {
		return fmt.Errorf("sms gateway url not configured")
	}

	payload, err := json.Marshal(map[string]any{
		"sender_id": s.cfg.SenderID,
		"to":        to,
		"message":   body,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("X-Signature", s.sign(payload))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.Warn("sms gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(raw)))
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *HTTPSMSSender) sign(payload []byte) string {
	h := hmac.New(sha256.New, []byte(s.cfg.SigningSecret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
