package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opencampus/academics-service/internal/events"
	"github.com/opencampus/academics-service/internal/mailer"
	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	mailer    mailer.Mailer
	logger    *slog.Logger
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, m mailer.Mailer, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		mailer:    m,
		logger:    logger,
	}
}

func (s *notificationService) NotifyLeaveRequested(ctx context.Context, leave *models.LeaveRequest, applicant *models.User) error {
	s.logger.Info("Notifying leave request", "leave_id", leave.ID, "user_id", leave.UserID)

	event := &events.Event{
		Type: events.EventLeaveRequested,
		Data: map[string]any{
			"leave_id":   leave.ID,
			"user_id":    leave.UserID,
			"start_date": time.Time(leave.StartDate).Format("2006-01-02"),
			"end_date":   time.Time(leave.EndDate).Format("2006-01-02"),
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish leave requested event", "leave_id", leave.ID, "error", err)
	}

	admins, err := s.adminRecipients(ctx)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		return nil
	}

	name := leave.UserID
	if applicant != nil {
		name = applicant.FullName()
	}

	msg := &mailer.Message{
		To:      admins,
		Subject: "New leave request pending review",
		TextBody: fmt.Sprintf("%s has applied for leave from %s to %s.\n\nReason: %s",
			name,
			time.Time(leave.StartDate).Format("2006-01-02"),
			time.Time(leave.EndDate).Format("2006-01-02"),
			leave.Reason),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to email admins: %w", err)
	}

	return nil
}

func (s *notificationService) NotifyLeaveDecided(ctx context.Context, leave *models.LeaveRequest, applicant *models.User) error {
	s.logger.Info("Notifying leave decision", "leave_id", leave.ID, "status", leave.Status)

	event := &events.Event{
		Type: events.EventLeaveStatusChanged,
		Data: map[string]any{
			"leave_id": leave.ID,
			"user_id":  leave.UserID,
			"status":   string(leave.Status),
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish leave status event", "leave_id", leave.ID, "error", err)
	}

	if applicant == nil || applicant.Email == "" {
		return nil
	}

	msg := &mailer.Message{
		To:      []mailer.Recipient{{Name: applicant.FullName(), Address: applicant.Email}},
		Subject: fmt.Sprintf("Your leave request was %s", leave.Status),
		TextBody: fmt.Sprintf("Your leave request from %s to %s has been %s.",
			time.Time(leave.StartDate).Format("2006-01-02"),
			time.Time(leave.EndDate).Format("2006-01-02"),
			leave.Status),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to email applicant: %w", err)
	}

	return nil
}

func (s *notificationService) NotifyAnnouncementPosted(ctx context.Context, announcement *models.Announcement) error {
	s.logger.Info("Notifying announcement", "announcement_id", announcement.ID)

	event := &events.Event{
		Type: events.EventAnnouncementPosted,
		Data: map[string]any{
			"announcement_id": announcement.ID,
			"title":           announcement.Title,
			"posted_by":       announcement.PostedByID,
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish announcement event: %w", err)
	}

	return nil
}

func (s *notificationService) adminRecipients(ctx context.Context) ([]mailer.Recipient, error) {
	role := models.RoleAdmin
	admins, _, err := s.repo.User().List(ctx, nil, repositories.UserFilters{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	recipients := make([]mailer.Recipient, 0, len(admins))
	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		recipients = append(recipients, mailer.Recipient{Name: admin.FullName(), Address: admin.Email})
	}
	return recipients, nil
}
