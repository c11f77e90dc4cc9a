package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

type announcementService struct {
	repo          repositories.Repository
	db            *gorm.DB
	logger        *slog.Logger
	validator     *validator.Validator
	notifications NotificationService
}

func NewAnnouncementService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, notifications NotificationService) AnnouncementService {
	return &announcementService{
		repo:          repo,
		db:            db,
		logger:        logger,
		validator:     v,
		notifications: notifications,
	}
}

func (s *announcementService) Post(ctx context.Context, req *CreateAnnouncementRequest, posterID string) (*AnnouncementResponse, error) {
	s.logger.Info("Posting announcement", "poster_id", posterID, "title", req.Title)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	poster, err := s.repo.User().GetByID(ctx, nil, posterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get poster: %w", err)
	}

	announcement := &models.Announcement{
		Title:      req.Title,
		Content:    req.Content,
		PostedByID: posterID,
	}
	if err := s.repo.Announcement().Create(ctx, nil, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	announcement.PostedBy = poster

	s.notifyAsync(ctx, announcement)

	return toAnnouncementResponse(announcement), nil
}

func (s *announcementService) List(ctx context.Context, limit int) ([]*AnnouncementResponse, error) {
	announcements, err := s.repo.Announcement().List(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	responses := make([]*AnnouncementResponse, len(announcements))
	for i, a := range announcements {
		responses[i] = toAnnouncementResponse(a)
	}
	return responses, nil
}

func (s *announcementService) Delete(ctx context.Context, id uint, actorID string, actorRole models.UserRole) error {
	s.logger.Info("Deleting announcement", "announcement_id", id, "actor_id", actorID)

	announcement, err := s.repo.Announcement().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to get announcement: %w", err)
	}

	if actorRole != models.RoleAdmin && announcement.PostedByID != actorID {
		return NewPermissionError(actorID, id, "announcement", "delete", "only admins or the original poster may delete an announcement")
	}

	if err := s.repo.Announcement().Delete(ctx, nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}

func (s *announcementService) notifyAsync(ctx context.Context, announcement *models.Announcement) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	go func() {
		defer cancel()
		if err := s.notifications.NotifyAnnouncementPosted(notifyCtx, announcement); err != nil {
			s.logger.Warn("Failed to send announcement notification", "announcement_id", announcement.ID, "error", err)
		}
	}()
}

func toAnnouncementResponse(a *models.Announcement) *AnnouncementResponse {
	resp := &AnnouncementResponse{Announcement: a}
	if a.PostedBy != nil {
		resp.PostedByName = a.PostedBy.FullName()
	}
	return resp
}
