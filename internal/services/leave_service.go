package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

type leaveService struct {
	repo          repositories.Repository
	db            *gorm.DB
	logger        *slog.Logger
	validator     *validator.Validator
	notifications NotificationService
}

func NewLeaveService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifications NotificationService) LeaveService {
	return &leaveService{
		repo:          repo,
		db:            db,
		logger:        logger,
		validator:     validator,
		notifications: notifications,
	}
}

func (s *leaveService) Apply(ctx context.Context, req *CreateLeaveRequest, userID string) (*LeaveResponse, error) {
	s.logger.Info("Applying for leave", "user_id", userID, "start", req.StartDate, "end", req.EndDate)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date: %v", ErrValidationFailed, err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date: %v", ErrValidationFailed, err)
	}
	if errs := s.validator.GetBusinessValidator().ValidateLeaveDates(startDate, endDate); len(errs) > 0 {
		return nil, errs
	}

	applicant, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	leave := &models.LeaveRequest{
		UserID:    userID,
		StartDate: datatypes.Date(startDate),
		EndDate:   datatypes.Date(endDate),
		Reason:    req.Reason,
		Status:    models.LeavePending,
	}
	if err := s.repo.Leave().Create(ctx, nil, leave); err != nil {
		return nil, err
	}

	// A lost notification never fails the application.
	s.notifyAsync(ctx, func(ctx context.Context) error {
		return s.notifications.NotifyLeaveRequested(ctx, leave, applicant)
	})

	leave.User = applicant
	return toLeaveResponse(leave), nil
}

func (s *leaveService) Decide(ctx context.Context, id uint, req *DecideLeaveRequest, adminID string) (*LeaveResponse, error) {
	s.logger.Info("Deciding leave request", "leave_id", id, "admin_id", adminID, "status", req.Status)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	isAdmin, err := s.repo.User().HasRole(ctx, nil, adminID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to check role: %w", err)
	}
	if !isAdmin {
		return nil, NewPermissionError(adminID, id, "leave_request", "decide", "admin role required")
	}

	leave, err := s.repo.Leave().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateLeaveTransition(leave.Status, req.Status); len(errs) > 0 {
		if leave.Status.Terminal() {
			return nil, ErrLeaveAlreadyDecided
		}
		return nil, errs
	}

	if err := s.repo.Leave().UpdateStatus(ctx, nil, id, req.Status); err != nil {
		return nil, err
	}

	leave.Status = req.Status
	applicant := leave.User
	s.notifyAsync(ctx, func(ctx context.Context) error {
		return s.notifications.NotifyLeaveDecided(ctx, leave, applicant)
	})

	return toLeaveResponse(leave), nil
}

func (s *leaveService) GetByID(ctx context.Context, id uint, actorID string, actorRole models.UserRole) (*LeaveResponse, error) {
	leave, err := s.repo.Leave().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}

	// Applicants see their own requests; admins see everything.
	if actorRole != models.RoleAdmin && leave.UserID != actorID {
		return nil, NewPermissionError(actorID, id, "leave_request", "read", "not the applicant")
	}

	return toLeaveResponse(leave), nil
}

func (s *leaveService) List(ctx context.Context, filters repositories.LeaveFilters) (*LeaveListResponse, error) {
	requests, total, err := s.repo.Leave().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]*LeaveResponse, len(requests))
	for i, leave := range requests {
		responses[i] = toLeaveResponse(leave)
	}

	return &LeaveListResponse{
		Requests: responses,
		Total:    total,
		Page:     pageFromOffset(filters.Offset, filters.Limit),
		Size:     filters.Limit,
	}, nil
}

func (s *leaveService) ListMine(ctx context.Context, userID string, filters repositories.LeaveFilters) (*LeaveListResponse, error) {
	filters.UserID = &userID
	return s.List(ctx, filters)
}

// ===== HELPERS =====

func (s *leaveService) notifyAsync(ctx context.Context, fn func(ctx context.Context) error) {
	go func(parent context.Context) {
		notifyCtx, cancel := context.WithTimeout(parent, 10*time.Second)
		defer cancel()
		if err := fn(notifyCtx); err != nil {
			s.logger.Warn("Leave notification failed", "error", err)
		}
	}(context.WithoutCancel(ctx))
}

func toLeaveResponse(leave *models.LeaveRequest) *LeaveResponse {
	resp := &LeaveResponse{LeaveRequest: leave}
	if leave.User != nil {
		resp.ApplicantName = leave.User.FullName()
	}
	return resp
}
