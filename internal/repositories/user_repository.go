package repositories

import (
	"context"

	"github.com/opencampus/academics-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for user account operations
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// List and search operations
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	HasRole(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) (bool, error)
	CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error)
}

// StudentRepository interface for student profile operations
type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error)
	GetByRollNo(ctx context.Context, tx *gorm.DB, rollNo string) (*models.StudentProfile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error)

	ExistsByRollNo(ctx context.Context, tx *gorm.DB, rollNo string) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}
