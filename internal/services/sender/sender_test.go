package services

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/contrato-facil/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const validBody = `{"email":"ana@example.com","display_name":"Ana","token":"tok-1"}`

func TestSenderService_SendConfirmation(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "success - send confirmation email",
			body: []byte(validBody),
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				t.On("GetSMTPUser").Return("no-reply@contratofacil.ao")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "no-reply@contratofacil.ao").Return(nil).Once()
				mockClient.On("Rcpt", "ana@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.MatchedBy(func(p []byte) bool {
					s := string(p)
					return strings.Contains(s, "To: ana@example.com") &&
						strings.Contains(s, "Olá, Ana!") &&
						strings.Contains(s, "https://contratofacil.ao/confirm?token=tok-1")
				})).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: false,
		},
		{
			name:          "invalid JSON",
			body:          []byte(`invalid json`),
			setupMocks:    func(_ *MockTransport) {},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name:          "missing token",
			body:          []byte(`{"email":"ana@example.com"}`),
			setupMocks:    func(_ *MockTransport) {},
			expectedError: true,
			errorMessage:  "invalid confirmation message",
		},
		{
			name: "SMTP connection error",
			body: []byte(validBody),
			setupMocks: func(t *MockTransport) {
				t.On("GetSMTPUser").Return("no-reply@contratofacil.ao")
				t.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
		{
			name: "recipient rejected",
			body: []byte(validBody),
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)

				t.On("GetSMTPUser").Return("no-reply@contratofacil.ao")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "no-reply@contratofacil.ao").Return(nil).Once()
				mockClient.On("Rcpt", "ana@example.com").Return(errors.New("550 mailbox unavailable")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: true,
			errorMessage:  "550",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(newNoopLogger(), transport, "https://contratofacil.ao/confirm")

			tt.setupMocks(transport)

			err := service.SendConfirmation(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestConfirmationLink(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/api/v1/confirm?token=a%2Bb",
		ConfirmationLink("http://localhost:8080/api/v1/confirm", "a+b"))
	assert.Equal(t, "https://x.ao/c?lang=pt&token=t",
		ConfirmationLink("https://x.ao/c?lang=pt", "t"))
}
