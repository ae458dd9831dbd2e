package email

import (
	"context"
	"sync"
)

// SentEmail is a message captured by MockMailer
type SentEmail struct {
	Kind string // verification | reset
	To   string
	Name string
	Link string
}

// MockMailer records emails instead of sending them
type MockMailer struct {
	mu   sync.Mutex
	Sent []SentEmail

	// Err, when set, is returned by every send
	Err error
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

var _ Mailer = (*MockMailer)(nil)

func (m *MockMailer) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	return m.record("verification", to, name, link)
}

func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	return m.record("reset", to, name, link)
}

func (m *MockMailer) record(kind, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentEmail{Kind: kind, To: to, Name: name, Link: link})
	return nil
}

// Last returns the most recent email of kind, or nil
func (m *MockMailer) Last(kind string) *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].Kind == kind {
			sent := m.Sent[i]
			return &sent
		}
	}
	return nil
}
