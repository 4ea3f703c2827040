package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"go-helpdesk/internal/features/settings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OutboundEmail carries one message through the send pipeline.
type OutboundEmail struct {
	To             string
	Subject        string
	Body           string
	OrganizationID primitive.ObjectID
	TicketID       primitive.ObjectID
}

type EmailService interface {
	// Send delivers one message via the organization's SMTP settings.
	// Failure is returned to the caller; the attempt is recorded either way.
	Send(ctx context.Context, msg OutboundEmail) error
}

type EmailServiceImpl struct {
	SettingsService settings.SettingsService
	Repo            *EmailRepository
	Logger          *zap.Logger
}

func NewEmailService(settingsService settings.SettingsService, repo *EmailRepository, logger *zap.Logger) EmailService {
	return &EmailServiceImpl{
		SettingsService: settingsService,
		Repo:            repo,
		Logger:          logger,
	}
}

func (s *EmailServiceImpl) Send(ctx context.Context, msg OutboundEmail) error {
	config, err := s.SettingsService.GetEmailConfig(ctx, msg.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to fetch email config: %w", err)
	}
	if config == nil {
		return errors.New("email configuration not found")
	}

	if config.SMTPHost == "" || config.SMTPPort == 0 {
		return errors.New("invalid email configuration: missing host or port")
	}

	auth := smtp.PlainAuth("", config.SMTPUser, config.SMTPPassword, config.SMTPHost)

	addr := fmt.Sprintf("%s:%d", config.SMTPHost, config.SMTPPort)
	from := config.FromEmail
	if from == "" {
		from = config.SMTPUser
	}

	emailRecord := &Email{
		ID:             primitive.NewObjectID(),
		OrganizationID: msg.OrganizationID,
		TicketID:       msg.TicketID,
		From:           from,
		To:             msg.To,
		Subject:        msg.Subject,
		Body:           msg.Body,
		Status:         EmailQueued,
	}

	if s.Repo != nil {
		_ = s.Repo.Create(ctx, emailRecord)
	}

	raw := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", msg.To, msg.Subject, msg.Body))

	s.Logger.Debug("Sending email", zap.String("to", msg.To), zap.String("addr", addr))
	err = smtp.SendMail(addr, auth, from, []string{msg.To}, raw)

	status := EmailSent
	errMsg := ""
	if err != nil {
		status = EmailFailed
		errMsg = err.Error()
	}

	if s.Repo != nil {
		_ = s.Repo.UpdateStatus(ctx, emailRecord.ID, status, errMsg)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
