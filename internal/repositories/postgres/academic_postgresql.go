package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

// ===== DEPARTMENTS =====

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentPostgreSQL(db *gorm.DB) repositories.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *departmentRepository) Create(ctx context.Context, tx *gorm.DB, department *models.Department) error {
	if err := r.getDB(tx).WithContext(ctx).Create(department).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Department, error) {
	var department models.Department
	if err := r.getDB(tx).WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) Update(ctx context.Context, tx *gorm.DB, department *models.Department) error {
	if err := r.getDB(tx).WithContext(ctx).Save(department).Error; err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.Department{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete department: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *departmentRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Department, error) {
	var departments []*models.Department
	if err := r.getDB(tx).WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.getDB(tx).WithContext(ctx).Model(&models.Department{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count departments: %w", err)
	}
	return count, nil
}

// ===== CLASSES =====

type classRepository struct {
	db *gorm.DB
}

func NewClassPostgreSQL(db *gorm.DB) repositories.ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *classRepository) Create(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	if err := r.getDB(tx).WithContext(ctx).Create(class).Error; err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func (r *classRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	var class models.Class
	if err := r.getDB(tx).WithContext(ctx).Preload("Department").First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Class, error) {
	var class models.Class
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Department").
		Where("LOWER(name) = LOWER(?)", name).
		First(&class).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) Update(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	if err := r.getDB(tx).WithContext(ctx).Save(class).Error; err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	return nil
}

func (r *classRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.Class{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete class: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Class, error) {
	var classes []*models.Class
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Department").
		Order("name ASC").
		Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (r *classRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.getDB(tx).WithContext(ctx).Model(&models.Class{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count classes: %w", err)
	}
	return count, nil
}

// ===== SUBJECTS =====

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *subjectRepository) Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	if err := r.getDB(tx).WithContext(ctx).Create(subject).Error; err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

func (r *subjectRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Class").
		Preload("Faculty").
		First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) Update(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	if err := r.getDB(tx).WithContext(ctx).Save(subject).Error; err != nil {
		return fmt.Errorf("failed to update subject: %w", err)
	}
	return nil
}

func (r *subjectRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.Subject{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete subject: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subjectRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Class").
		Preload("Faculty").
		Order("name ASC").
		Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (r *subjectRepository) ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Faculty").
		Where("class_id = ?", classID).
		Order("name ASC").
		Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects by class: %w", err)
	}
	return subjects, nil
}

func (r *subjectRepository) ListByFaculty(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Class").
		Where("faculty_id = ?", facultyID).
		Order("name ASC").
		Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects by faculty: %w", err)
	}
	return subjects, nil
}

func (r *subjectRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.getDB(tx).WithContext(ctx).Model(&models.Subject{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subjects: %w", err)
	}
	return count, nil
}

// ===== TIME SLOTS =====

type timeSlotRepository struct {
	db *gorm.DB
}

func NewTimeSlotPostgreSQL(db *gorm.DB) repositories.TimeSlotRepository {
	return &timeSlotRepository{db: db}
}

func (r *timeSlotRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *timeSlotRepository) Create(ctx context.Context, tx *gorm.DB, slot *models.TimeSlot) error {
	if err := r.getDB(tx).WithContext(ctx).Create(slot).Error; err != nil {
		return fmt.Errorf("failed to create time slot: %w", err)
	}
	return nil
}

func (r *timeSlotRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	if err := r.getDB(tx).WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.TimeSlot{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete time slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timeSlotRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.TimeSlot, error) {
	var slots []*models.TimeSlot
	if err := r.getDB(tx).WithContext(ctx).Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	return slots, nil
}

// ===== TIMETABLES =====

type timetableRepository struct {
	db *gorm.DB
}

func NewTimetablePostgreSQL(db *gorm.DB) repositories.TimetableRepository {
	return &timetableRepository{db: db}
}

func (r *timetableRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *timetableRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.Timetable) error {
	if err := r.getDB(tx).WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create timetable entry: %w", err)
	}
	return nil
}

func (r *timetableRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Timetable, error) {
	var entry models.Timetable
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Subject").
		Preload("Subject.Class").
		Preload("TimeSlot").
		First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timetableRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.Timetable{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete timetable entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timetableRepository) ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Timetable, error) {
	var entries []*models.Timetable
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Subject").
		Preload("Subject.Faculty").
		Preload("TimeSlot").
		Joins("JOIN subjects ON subjects.id = timetables.subject_id").
		Where("subjects.class_id = ?", classID).
		Joins("JOIN time_slots ON time_slots.id = timetables.time_slot_id").
		Order("timetables.day_of_week ASC, time_slots.start_time ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list timetable by class: %w", err)
	}
	return entries, nil
}

func (r *timetableRepository) ListByFaculty(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Timetable, error) {
	var entries []*models.Timetable
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Subject").
		Preload("Subject.Class").
		Preload("TimeSlot").
		Joins("JOIN subjects ON subjects.id = timetables.subject_id").
		Where("subjects.faculty_id = ?", facultyID).
		Joins("JOIN time_slots ON time_slots.id = timetables.time_slot_id").
		Order("timetables.day_of_week ASC, time_slots.start_time ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list timetable by faculty: %w", err)
	}
	return entries, nil
}

func (r *timetableRepository) ListBySubjectAndDay(ctx context.Context, tx *gorm.DB, subjectIDs []uint, dayOfWeek int) ([]*models.Timetable, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}

	var entries []*models.Timetable
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Subject").
		Preload("Subject.Class").
		Preload("TimeSlot").
		Joins("JOIN time_slots ON time_slots.id = timetables.time_slot_id").
		Where("timetables.subject_id IN ? AND timetables.day_of_week = ?", subjectIDs, dayOfWeek).
		Order("time_slots.start_time ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list timetable by subject and day: %w", err)
	}
	return entries, nil
}

func (r *timetableRepository) ExistsSlot(ctx context.Context, tx *gorm.DB, subjectID uint, dayOfWeek int, timeSlotID uint) (bool, error) {
	var count int64
	if err := r.getDB(tx).WithContext(ctx).
		Model(&models.Timetable{}).
		Where("subject_id = ? AND day_of_week = ? AND time_slot_id = ?", subjectID, dayOfWeek, timeSlotID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check timetable slot: %w", err)
	}
	return count > 0, nil
}

// ===== ANNOUNCEMENTS =====

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementPostgreSQL(db *gorm.DB) repositories.AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *announcementRepository) Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	if err := r.getDB(tx).WithContext(ctx).Create(announcement).Error; err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.getDB(tx).WithContext(ctx).
		Preload("PostedBy").
		First(&announcement, id).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *announcementRepository) List(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Announcement, error) {
	query := r.getDB(tx).WithContext(ctx).
		Preload("PostedBy").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var announcements []*models.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}
