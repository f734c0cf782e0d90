package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	mailer "github.com/iliyamo/coworking-space/internal/mail"
)

// ContactService forwards visitor messages to the staff mailbox.
type ContactService struct {
	mailer       Mailer
	defaultEmail string
}

func NewContactService(m Mailer, defaultEmail string) *ContactService {
	return &ContactService{mailer: m, defaultEmail: defaultEmail}
}

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
	ToEmail string // overrides the default recipient
}

func (s *ContactService) Send(ctx context.Context, in ContactInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return badRequest("Name, email and message are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return badRequest("Invalid email address")
	}
	to := strings.TrimSpace(in.ToEmail)
	if to == "" {
		to = s.defaultEmail
	}
	if to == "" {
		return badRequest("No recipient configured")
	}

	html, err := mailer.Render(mailer.TemplateContact, mailer.ContactData{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		return err
	}
	err = s.mailer.Send(ctx, mailer.Message{
		To:      []string{to},
		ReplyTo: in.Email,
		Subject: "Nouveau message de contact: " + in.Subject,
		HTML:    html,
		Text:    fmt.Sprintf("%s <%s>\n\n%s", in.Name, in.Email, in.Message),
	})
	if err != nil {
		return fmt.Errorf("send contact message: %w", err)
	}
	return nil
}
