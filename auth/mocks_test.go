package auth_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// recorderMailer captures every link handed to it so scenario tests can
// follow the verification and reset flows end to end.
type recorderMailer struct {
	mu             sync.Mutex
	verifications  []sentMail
	passwordResets []sentMail
}

type sentMail struct {
	Email string
	Link  string
}

func (m *recorderMailer) SendVerification(_ context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, sentMail{Email: email, Link: link})
	return nil
}

func (m *recorderMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwordResets = append(m.passwordResets, sentMail{Email: email, Link: link})
	return nil
}

func (m *recorderMailer) lastVerification() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.verifications) == 0 {
		return sentMail{}, false
	}
	return m.verifications[len(m.verifications)-1], true
}

func (m *recorderMailer) lastPasswordReset() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.passwordResets) == 0 {
		return sentMail{}, false
	}
	return m.passwordResets[len(m.passwordResets)-1], true
}

// failingMailer simulates an unreachable mail relay.
type failingMailer struct{}

func (failingMailer) SendVerification(context.Context, string, string) error {
	return fmt.Errorf("smtp: connection refused")
}

func (failingMailer) SendPasswordReset(context.Context, string, string) error {
	return fmt.Errorf("smtp: connection refused")
}
