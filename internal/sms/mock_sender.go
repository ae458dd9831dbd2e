package sms

import (
	"context"
	"sync"
)

// SentMessage is a text captured by MockSender
type SentMessage struct {
	Phone   string
	Message string
}

// MockSender records texts instead of sending them
type MockSender struct {
	mu       sync.Mutex
	Messages []SentMessage
	Err      error
}

// NewMockSender creates a new mock sender
func NewMockSender() *MockSender {
	return &MockSender{}
}

var _ Sender = (*MockSender)(nil)

// Send records the message
func (m *MockSender) Send(ctx context.Context, phone, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, SentMessage{Phone: phone, Message: message})
	return nil
}

// Count returns the number of recorded messages
func (m *MockSender) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}

// Last returns the most recent message, or nil
func (m *MockSender) Last() *SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return nil
	}
	msg := m.Messages[len(m.Messages)-1]
	return &msg
}
