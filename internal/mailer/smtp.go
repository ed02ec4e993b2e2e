package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/internreg/internal/model"
)

// Config holds SMTP connection and sender details.
type Config struct {
	Host        string
	Port        int
	User        string
	Pass        string
	FromAddress string
	FromName    string
}

// NewConfigFromSettings builds a Config from persisted mail settings.
func NewConfigFromSettings(s *model.MailSettings) *Config {
	if s == nil {
		return &Config{}
	}
	return &Config{
		Host:        s.SMTPHost,
		Port:        s.SMTPPort,
		User:        s.SMTPUser,
		Pass:        s.SMTPPass,
		FromAddress: s.SMTPFromAddress,
		FromName:    s.SMTPFromName,
	}
}

// Attachment is a file carried by an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outgoing email.
type Message struct {
	To          []string
	Subject     string
	Body        string
	IsHTML      bool
	Attachments []Attachment
}

// Mailer sends emails via SMTP.
type Mailer struct {
	mu     sync.RWMutex
	cfg    *Config
	sendFn func(Message) error
}

// New returns a Mailer using cfg. A nil cfg yields an unconfigured mailer
// that logs messages instead of sending them.
func New(cfg *Config) *Mailer {
	if cfg == nil {
		cfg = &Config{}
	}
	m := &Mailer{cfg: cfg}
	m.sendFn = m.deliver
	return m
}

// Reconfigure swaps the SMTP settings used for subsequent sends.
func (m *Mailer) Reconfigure(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
}

func (m *Mailer) config() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Send delivers msg synchronously.
func (m *Mailer) Send(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mailer: message has no recipients")
	}
	return m.sendFn(msg)
}

// Ping checks that the SMTP server accepts connections.
func (m *Mailer) Ping() error {
	cfg := m.config()
	if cfg.Host == "" {
		return fmt.Errorf("mailer: SMTP host is not configured")
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), 5*time.Second)
	if err != nil {
		return fmt.Errorf("mailer: dial smtp: %w", err)
	}
	return conn.Close()
}

func (m *Mailer) deliver(msg Message) error {
	cfg := m.config()

	// Without an SMTP host the message is only logged (development).
	if cfg.Host == "" {
		slog.Info("mailer: smtp not configured, message not sent",
			"to", strings.Join(msg.To, ", "),
			"subject", msg.Subject,
			"attachments", len(msg.Attachments),
		)
		return nil
	}

	raw, err := m.formatMessage(msg)
	if err != nil {
		return fmt.Errorf("mailer: build message: %w", err)
	}

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	if err := smtp.SendMail(addr, auth, cfg.FromAddress, msg.To, []byte(raw)); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// formatMessage renders msg as an RFC 5322 message, using multipart/mixed
// when attachments are present.
func (m *Mailer) formatMessage(msg Message) (string, error) {
	cfg := m.config()

	var buf bytes.Buffer
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", sanitizeHeader(msg.Subject))))
	buf.WriteString("MIME-Version: 1.0\r\n")

	contentType := "text/plain; charset=UTF-8"
	if msg.IsHTML {
		contentType = "text/html; charset=UTF-8"
	}

	if len(msg.Attachments) == 0 {
		buf.WriteString(fmt.Sprintf("Content-Type: %s\r\n", contentType))
		buf.WriteString("\r\n")
		buf.WriteString(msg.Body)
		return buf.String(), nil
	}

	var parts bytes.Buffer
	writer := multipart.NewWriter(&parts)
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n", writer.Boundary()))
	buf.WriteString("\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", contentType)
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return "", err
	}
	if _, err := textPart.Write([]byte(msg.Body)); err != nil {
		return "", err
	}

	for _, att := range msg.Attachments {
		ct := att.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", ct)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))

		attPart, err := writer.CreatePart(attHeader)
		if err != nil {
			return "", err
		}

		encoded := base64.StdEncoding.EncodeToString(att.Data)
		// 76-character lines per RFC 2045
		for i := 0; i < len(encoded); i += 76 {
			end := min(i+76, len(encoded))
			if _, err := attPart.Write([]byte(encoded[i:end] + "\r\n")); err != nil {
				return "", err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return "", err
	}
	buf.Write(parts.Bytes())
	return buf.String(), nil
}

func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
