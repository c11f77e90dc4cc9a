package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *userService) Create(ctx context.Context, req *CreateUserRequest, actorID string) (*UserResponse, error) {
	s.logger.Info("Creating user", "actor_id", actorID, "username", req.Username, "role", req.Role)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Role == models.RoleStudent {
		if req.RollNo == nil || strings.TrimSpace(*req.RollNo) == "" {
			return nil, fmt.Errorf("%w: roll_no is required for students", ErrValidationFailed)
		}
		if req.ClassID == nil {
			return nil, fmt.Errorf("%w: class_id is required for students", ErrValidationFailed)
		}
	}

	exists, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	var profile *models.StudentProfile
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateUsername
			}
			return err
		}

		if user.Role != models.RoleStudent {
			return nil
		}

		if _, err := txRepo.Class().GetByID(ctx, nil, *req.ClassID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrClassNotFound
			}
			return err
		}

		rollExists, err := txRepo.Student().ExistsByRollNo(ctx, nil, *req.RollNo)
		if err != nil {
			return err
		}
		if rollExists {
			return ErrDuplicateRollNo
		}

		profile = &models.StudentProfile{
			UserID:  user.ID,
			RollNo:  *req.RollNo,
			ClassID: *req.ClassID,
		}
		if err := txRepo.Student().Create(ctx, nil, profile); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateRollNo
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.toUserResponse(ctx, user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.toUserResponse(ctx, user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.toUserResponse(ctx, user), nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest, actorID string) (*UserResponse, error) {
	s.logger.Info("Updating user", "actor_id", actorID, "user_id", id)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Update(ctx, nil, user); err != nil {
			return err
		}

		if req.ClassID == nil || user.Role != models.RoleStudent {
			return nil
		}

		profile, err := txRepo.Student().GetByUserID(ctx, nil, user.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrStudentNotFound
			}
			return err
		}

		if _, err := txRepo.Class().GetByID(ctx, nil, *req.ClassID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrClassNotFound
			}
			return err
		}

		profile.ClassID = *req.ClassID
		return txRepo.Student().Update(ctx, nil, profile)
	})
	if err != nil {
		return nil, err
	}

	return s.toUserResponse(ctx, user), nil
}

func (s *userService) Delete(ctx context.Context, id string, actorID string) error {
	s.logger.Info("Deleting user", "actor_id", actorID, "user_id", id)

	if id == actorID {
		return NewPermissionError(actorID, 0, "user", "delete", "cannot delete own account")
	}

	err := s.repo.User().Delete(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*UserResponse, len(users))
	for i, user := range users {
		responses[i] = s.toUserResponse(ctx, user)
	}

	return &UserListResponse{
		Users: responses,
		Total: total,
		Page:  pageFromOffset(filters.Offset, filters.Limit),
		Size:  filters.Limit,
	}, nil
}

// ===== HELPERS =====

func (s *userService) toUserResponse(ctx context.Context, user *models.User) *UserResponse {
	resp := &UserResponse{User: user}

	if user.Role != models.RoleStudent {
		return resp
	}

	profile, err := s.repo.Student().GetByUserID(ctx, nil, user.ID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			s.logger.Warn("Failed to load student profile", "user_id", user.ID, "error", err)
		}
		return resp
	}

	resp.RollNo = &profile.RollNo
	resp.ClassID = &profile.ClassID
	if profile.Class != nil {
		resp.ClassName = &profile.Class.Name
	}

	return resp
}

func pageFromOffset(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
