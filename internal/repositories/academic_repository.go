package repositories

import (
	"context"

	"github.com/opencampus/academics-service/internal/models"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, department *models.Department) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Department, error)
	Update(ctx context.Context, tx *gorm.DB, department *models.Department) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.Department, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type ClassRepository interface {
	Create(ctx context.Context, tx *gorm.DB, class *models.Class) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error)
	// GetByName matches case-insensitively; CSV imports carry class names
	// typed by hand.
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Class, error)
	Update(ctx context.Context, tx *gorm.DB, class *models.Class) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.Class, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type SubjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error)
	Update(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)
	ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Subject, error)
	ListByFaculty(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Subject, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type TimeSlotRepository interface {
	Create(ctx context.Context, tx *gorm.DB, slot *models.TimeSlot) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TimeSlot, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.TimeSlot, error)
}

type TimetableRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.Timetable) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Timetable, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// ListByClass returns the weekly schedule of every subject in the class,
	// ordered by day then slot start time.
	ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Timetable, error)
	ListByFaculty(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Timetable, error)
	ListBySubjectAndDay(ctx context.Context, tx *gorm.DB, subjectIDs []uint, dayOfWeek int) ([]*models.Timetable, error)

	ExistsSlot(ctx context.Context, tx *gorm.DB, subjectID uint, dayOfWeek int, timeSlotID uint) (bool, error)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	// List returns newest first; limit <= 0 means no limit.
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Announcement, error)
}
