package services

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers an email to a single recipient.
type EmailSender interface {
	SendEmail(toName, toEmail, subject, htmlContent string) error
}

type SendGridService struct {
	apiKey    string
	fromName  string
	fromEmail string
}

// NewSendGridService creates a new SendGrid email service instance
func NewSendGridService() (*SendGridService, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "no-reply@gharnest.in"
	}

	return &SendGridService{
		apiKey:    apiKey,
		fromName:  "GharNest",
		fromEmail: fromEmail,
	}, nil
}

// SendEmail sends an email using SendGrid
func (s *SendGridService) SendEmail(toName, toEmail, subject, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlContent)
	client := sendgrid.NewSendClient(s.apiKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	if response.StatusCode >= 400 {
		log.Printf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("✅ Email sent to %s. Status: %d", toEmail, response.StatusCode)
	return nil
}
