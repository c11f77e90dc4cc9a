package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *dashboardRepository) GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total students: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalFaculty(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleFaculty).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total faculty: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalClasses(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Class{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total classes: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalSubjects(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Subject{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total subjects: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalDepartments(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Department{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total departments: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetPendingLeaveCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.LeaveRequest{}).
		Where("status = ?", models.LeavePending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get pending leave count: %w", err)
	}

	return count, nil
}

