package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

type leaveRepository struct {
	db *gorm.DB
}

func NewLeavePostgreSQL(db *gorm.DB) repositories.LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *leaveRepository) Create(ctx context.Context, tx *gorm.DB, leave *models.LeaveRequest) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).Create(leave).Error; err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}

	return nil
}

func (r *leaveRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LeaveRequest, error) {
	db := r.getDB(tx)

	var leave models.LeaveRequest
	if err := db.WithContext(ctx).
		Preload("User").
		First(&leave, id).Error; err != nil {
		return nil, err
	}

	return &leave, nil
}

func (r *leaveRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.LeaveStatus) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.LeaveRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update leave status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *leaveRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.LeaveFilters) ([]*models.LeaveRequest, int64, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).Model(&models.LeaveRequest{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var leaves []*models.LeaveRequest
	if err := query.
		Preload("User").
		Order("created_at DESC").
		Find(&leaves).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return leaves, total, nil
}

func (r *leaveRepository) CountByStatus(ctx context.Context, tx *gorm.DB, status models.LeaveStatus) (int64, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.LeaveRequest{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count leave requests by status: %w", err)
	}

	return count, nil
}
