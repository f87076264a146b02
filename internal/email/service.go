package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/furwell/clinic-api/internal/config"
)

// ContactMessage is a contact-form submission relayed to the clinic inbox.
type ContactMessage struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

type Service interface {
	SendContactMessage(ctx context.Context, msg *ContactMessage) error
}

type gomailService struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewService(cfg config.EmailConfig) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.ContactInbox,
	}
}

func (s *gomailService) SendContactMessage(_ context.Context, msg *ContactMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", "New Contact Form Submission")
	m.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nContact: %s\nEmail: %s\nMessage: %s",
		msg.Name, msg.Contact, msg.Email, msg.Message,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}

// NoopService discards messages; used when email is disabled in config.
type NoopService struct{}

func (NoopService) SendContactMessage(context.Context, *ContactMessage) error {
	return nil
}
