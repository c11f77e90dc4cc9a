package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	db := r.getDB(tx)

	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := r.getDB(tx)

	var user models.User
	if err := db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR username ILIKE ? OR email ILIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var users []*models.User
	if err := query.Order("username ASC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return count > 0, nil
}

func (r *userRepository) HasRole(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) (bool, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, role).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}

	return count > 0, nil
}

func (r *userRepository) CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}

	return count, nil
}

// ===== STUDENT PROFILES =====

type studentRepository struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *studentRepository) Create(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}

	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProfile, error) {
	db := r.getDB(tx)

	var profile models.StudentProfile
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Class").
		First(&profile, id).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	db := r.getDB(tx)

	var profile models.StudentProfile
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Class").
		First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *studentRepository) GetByRollNo(ctx context.Context, tx *gorm.DB, rollNo string) (*models.StudentProfile, error) {
	db := r.getDB(tx)

	var profile models.StudentProfile
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Class").
		First(&profile, "roll_no = ?", rollNo).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *studentRepository) Update(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}

	return nil
}

func (r *studentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).Delete(&models.StudentProfile{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete student profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *studentRepository) ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error) {
	db := r.getDB(tx)

	var profiles []*models.StudentProfile
	if err := db.WithContext(ctx).
		Preload("User").
		Where("class_id = ?", classID).
		Order("roll_no ASC").
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list students by class: %w", err)
	}

	return profiles, nil
}

func (r *studentRepository) ExistsByRollNo(ctx context.Context, tx *gorm.DB, rollNo string) (bool, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("roll_no = ?", rollNo).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check roll number: %w", err)
	}

	return count > 0, nil
}

func (r *studentRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}

	return count, nil
}
