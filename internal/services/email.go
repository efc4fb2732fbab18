package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConferenceCreated sends the confirmation email using the "conference_created" template.
func (s *emailService) SendConferenceCreated(ctx context.Context, data *domain.ConferenceCreatedEmailData) error {
	if data == nil || data.Conference == nil {
		return fmt.Errorf("conference created email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("conference_created", data)
	if err != nil {
		return fmt.Errorf("failed to render conference_created template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send conference created email: %w", err)
	}
	s.logger.InfoContext(ctx, "conference created email sent", "to", data.Email, "conference_id", data.Conference.ID)
	return nil
}
