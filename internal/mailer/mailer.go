package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Recipient is a named email address
type Recipient struct {
	Name    string
	Address string
}

// Message is a plain-text notification email
type Message struct {
	To       []Recipient
	Subject  string
	TextBody string
}

// Mailer sends notification emails. Callers treat failures as best-effort:
// a lost email never fails the triggering operation.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// ===== SENDGRID =====

type sendGridMailer struct {
	key    string
	from   *sgmail.Email
	logger *slog.Logger
}

// NewSendGridMailer creates a SendGrid-backed mailer
func NewSendGridMailer(apiKey, fromName, fromAddress string, logger *slog.Logger) Mailer {
	return &sendGridMailer{
		key:    apiKey,
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger,
	}
}

func (m *sendGridMailer) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", msg.TextBody))

	client := sendgrid.NewSendClient(m.key)
	res, err := client.SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email: status %d: %s", res.StatusCode, res.Body)
	}

	m.logger.Debug("Email sent", "subject", msg.Subject, "recipients", len(msg.To))
	return nil
}

// ===== CONSOLE =====

type consoleMailer struct {
	logger *slog.Logger
}

// NewConsoleMailer logs emails instead of sending them. Used in development
// when no SendGrid key is configured.
func NewConsoleMailer(logger *slog.Logger) Mailer {
	return &consoleMailer{logger: logger}
}

func (m *consoleMailer) Send(_ context.Context, msg *Message) error {
	addrs := make([]string, len(msg.To))
	for i, to := range msg.To {
		addrs[i] = to.Address
	}
	m.logger.Info("Email (console)",
		"to", addrs,
		"subject", msg.Subject,
		"body", msg.TextBody)
	return nil
}

// ===== MOCK =====

// MockMailer records messages in memory for tests
type MockMailer struct {
	mu       sync.Mutex
	messages []*Message
	FailNext bool
}

// NewMockMailer creates an in-memory mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("mock mailer failure")
	}

	m.messages = append(m.messages, msg)
	return nil
}

// SentMessages returns a copy of all recorded messages
func (m *MockMailer) SentMessages() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Message, len(m.messages))
	copy(out, m.messages)
	return out
}
