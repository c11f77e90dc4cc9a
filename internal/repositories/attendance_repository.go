package repositories

import (
	"context"
	"time"

	"github.com/opencampus/academics-service/internal/models"
	"gorm.io/gorm"
)

// AttendanceRepository interface for attendance record operations
type AttendanceRepository interface {
	// Upsert writes records keyed by (student, subject, date, time slot);
	// an existing key gets its presence flag overwritten, never duplicated.
	Upsert(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error)
	Update(ctx context.Context, tx *gorm.DB, record *models.Attendance) error

	// List returns filtered records with student, subject and class preloaded,
	// newest date first.
	List(ctx context.Context, tx *gorm.DB, filters AttendanceFilters) ([]*models.Attendance, int64, error)

	// ListForExport streams the full filtered set without pagination.
	ListForExport(ctx context.Context, tx *gorm.DB, filters AttendanceFilters) ([]*models.Attendance, error)

	// Aggregate queries. All of these are single grouped statements so report
	// builders never fan out per student or per subject.
	GetLecturesConducted(ctx context.Context, tx *gorm.DB, subjectIDs []uint) ([]SubjectLectureCount, error)
	GetPresentCountsByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]StudentSubjectPresence, error)
	GetStudentPresenceTotals(ctx context.Context, tx *gorm.DB) ([]StudentPresenceTotals, error)
	GetStudentSubjectTotals(ctx context.Context, tx *gorm.DB, studentID uint) ([]StudentSubjectPresence, []SubjectLectureCount, error)
	GetLectureSessions(ctx context.Context, tx *gorm.DB, filters LectureHistoryFilters) ([]LectureSessionData, int64, error)

	// GetAveragePresence returns the mean of all presence flags as a fraction
	// in [0,1]. Zero records yields zero.
	GetAveragePresence(ctx context.Context, tx *gorm.DB) (float64, error)

	// CountSessionsOn counts distinct (subject, time slot) lectures recorded
	// on the given date.
	CountSessionsOn(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error)
}

// LeaveRepository interface for leave request operations
type LeaveRepository interface {
	Create(ctx context.Context, tx *gorm.DB, leave *models.LeaveRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.LeaveStatus) error
	List(ctx context.Context, tx *gorm.DB, filters LeaveFilters) ([]*models.LeaveRequest, int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status models.LeaveStatus) (int64, error)
}
