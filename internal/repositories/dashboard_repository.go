package repositories

import (
	"context"

	"gorm.io/gorm"
)

// DashboardRepository interface for portal-wide entity counters. Attendance
// aggregates live on AttendanceRepository.
type DashboardRepository interface {
	GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalFaculty(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalClasses(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalSubjects(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalDepartments(ctx context.Context, tx *gorm.DB) (int64, error)
	GetPendingLeaveCount(ctx context.Context, tx *gorm.DB) (int64, error)
}
