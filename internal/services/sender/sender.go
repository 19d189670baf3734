// Package services отправляет письма подтверждения e-mail из очереди уведомлений.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/smtp"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

const confirmationSubject = "Confirme o seu email - ContratoFácil"

// SenderService формирует и отправляет письма через SMTP.
type SenderService struct {
	transport       smtp.TransportInterface
	log             *slog.Logger
	confirmationURL string
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface, confirmationURL string) *SenderService {
	return &SenderService{
		transport:       transport,
		log:             log,
		confirmationURL: confirmationURL,
	}
}

// SendConfirmation обрабатывает сообщение очереди notifications.confirmation.
func (s *SenderService) SendConfirmation(body []byte) error {
	var message models.ConfirmationMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.Email == "" || message.Token == "" {
		return fmt.Errorf("invalid confirmation message: email and token are required")
	}

	name := message.DisplayName
	if name == "" {
		name = message.Email
	}
	bodyText := fmt.Sprintf("Olá, %s!\r\n\r\n"+
		"Obrigado por se registar no ContratoFácil.\r\n"+
		"Para activar a sua conta, abra o link abaixo:\r\n\r\n%s\r\n\r\n"+
		"Se não criou esta conta, ignore este email.",
		name, ConfirmationLink(s.confirmationURL, message.Token))

	return s.sendEmail([]string{message.Email}, confirmationSubject, bodyText)
}

// ConfirmationLink добавляет токен подтверждения к адресу страницы подтверждения.
func ConfirmationLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
