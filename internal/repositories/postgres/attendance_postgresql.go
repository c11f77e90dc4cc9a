package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *attendanceRepository) Upsert(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error {
	if len(records) == 0 {
		return nil
	}

	db := r.getDB(tx)

	// The latest flag wins on re-marking the same lecture.
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_id"},
				{Name: "subject_id"},
				{Name: "date"},
				{Name: "time_slot_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"is_present", "updated_at"}),
		}).
		Create(&records).Error; err != nil {
		return fmt.Errorf("failed to upsert attendance records: %w", err)
	}

	return nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error) {
	db := r.getDB(tx)

	var record models.Attendance
	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("Student.Class").
		Preload("Subject").
		Preload("TimeSlot").
		First(&record, id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *attendanceRepository) Update(ctx context.Context, tx *gorm.DB, record *models.Attendance) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{"is_present": record.IsPresent}).Error; err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return nil
}

// applyFilters joins only the tables a filter actually touches.
func (r *attendanceRepository) applyFilters(query *gorm.DB, filters repositories.AttendanceFilters) *gorm.DB {
	needsStudent := filters.ClassID != nil || filters.Query != ""
	if needsStudent {
		query = query.
			Joins("JOIN student_profiles ON student_profiles.id = attendance_records.student_id")
	}
	if filters.ClassID != nil {
		query = query.Where("student_profiles.class_id = ?", *filters.ClassID)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.
			Joins("JOIN users ON users.id = student_profiles.user_id").
			Where("users.first_name ILIKE ? OR users.last_name ILIKE ? OR student_profiles.roll_no ILIKE ?",
				like, like, like)
	}
	if filters.SubjectID != nil {
		query = query.Where("attendance_records.subject_id = ?", *filters.SubjectID)
	}
	if filters.FacultyID != nil {
		query = query.
			Joins("JOIN subjects ON subjects.id = attendance_records.subject_id").
			Where("subjects.faculty_id = ?", *filters.FacultyID)
	}
	if filters.StudentID != nil {
		query = query.Where("attendance_records.student_id = ?", *filters.StudentID)
	}
	if filters.Date != nil {
		query = query.Where("attendance_records.date = ?", filters.Date.Format("2006-01-02"))
	}
	if filters.DateFrom != nil {
		query = query.Where("attendance_records.date >= ?", filters.DateFrom.Format("2006-01-02"))
	}
	if filters.DateTo != nil {
		query = query.Where("attendance_records.date <= ?", filters.DateTo.Format("2006-01-02"))
	}

	return query
}

func (r *attendanceRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
	db := r.getDB(tx)

	query := r.applyFilters(db.WithContext(ctx).Model(&models.Attendance{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var records []*models.Attendance
	if err := query.
		Preload("Student").
		Preload("Student.User").
		Preload("Student.Class").
		Preload("Subject").
		Preload("TimeSlot").
		Order("attendance_records.date DESC, attendance_records.id ASC").
		Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return records, total, nil
}

func (r *attendanceRepository) ListForExport(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
	db := r.getDB(tx)

	query := r.applyFilters(db.WithContext(ctx).Model(&models.Attendance{}), filters)

	var records []*models.Attendance
	if err := query.
		Preload("Student").
		Preload("Student.User").
		Preload("Student.Class").
		Preload("Subject").
		Preload("TimeSlot").
		Order("attendance_records.date DESC, attendance_records.id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load attendance records for export: %w", err)
	}

	return records, nil
}

// ===== AGGREGATE QUERIES =====

func (r *attendanceRepository) GetLecturesConducted(ctx context.Context, tx *gorm.DB, subjectIDs []uint) ([]repositories.SubjectLectureCount, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)

	var results []repositories.SubjectLectureCount
	if err := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Select("subject_id, COUNT(DISTINCT (date, time_slot_id)) as lectures").
		Where("subject_id IN ?", subjectIDs).
		Group("subject_id").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count conducted lectures: %w", err)
	}

	return results, nil
}

func (r *attendanceRepository) GetPresentCountsByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]repositories.StudentSubjectPresence, error) {
	db := r.getDB(tx)

	var results []repositories.StudentSubjectPresence
	if err := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Select("attendance_records.student_id, attendance_records.subject_id, "+
			"SUM(CASE WHEN attendance_records.is_present THEN 1 ELSE 0 END) as present").
		Joins("JOIN student_profiles ON student_profiles.id = attendance_records.student_id").
		Where("student_profiles.class_id = ?", classID).
		Group("attendance_records.student_id, attendance_records.subject_id").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate present counts: %w", err)
	}

	return results, nil
}

func (r *attendanceRepository) GetStudentPresenceTotals(ctx context.Context, tx *gorm.DB) ([]repositories.StudentPresenceTotals, error) {
	db := r.getDB(tx)

	var results []repositories.StudentPresenceTotals
	if err := db.WithContext(ctx).
		Table("student_profiles").
		Select("student_profiles.id as student_id, student_profiles.roll_no, "+
			"users.first_name, users.last_name, "+
			"SUM(CASE WHEN attendance_records.is_present THEN 1 ELSE 0 END) as present, "+
			"COUNT(attendance_records.id) as total").
		Joins("JOIN attendance_records ON attendance_records.student_id = student_profiles.id").
		Joins("JOIN users ON users.id = student_profiles.user_id").
		Group("student_profiles.id, student_profiles.roll_no, users.first_name, users.last_name").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate student presence totals: %w", err)
	}

	return results, nil
}

func (r *attendanceRepository) GetStudentSubjectTotals(ctx context.Context, tx *gorm.DB, studentID uint) ([]repositories.StudentSubjectPresence, []repositories.SubjectLectureCount, error) {
	db := r.getDB(tx)

	var rows []struct {
		SubjectID uint
		Present   int64
		Total     int64
	}
	if err := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Select("subject_id, SUM(CASE WHEN is_present THEN 1 ELSE 0 END) as present, COUNT(*) as total").
		Where("student_id = ?", studentID).
		Group("subject_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate student subject totals: %w", err)
	}

	presence := make([]repositories.StudentSubjectPresence, 0, len(rows))
	lectures := make([]repositories.SubjectLectureCount, 0, len(rows))
	for _, row := range rows {
		presence = append(presence, repositories.StudentSubjectPresence{
			StudentID: studentID,
			SubjectID: row.SubjectID,
			Present:   row.Present,
		})
		lectures = append(lectures, repositories.SubjectLectureCount{
			SubjectID: row.SubjectID,
			Lectures:  row.Total,
		})
	}

	return presence, lectures, nil
}

func (r *attendanceRepository) GetLectureSessions(ctx context.Context, tx *gorm.DB, filters repositories.LectureHistoryFilters) ([]repositories.LectureSessionData, int64, error) {
	db := r.getDB(tx)

	base := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Joins("JOIN subjects ON subjects.id = attendance_records.subject_id").
		Joins("JOIN classes ON classes.id = subjects.class_id")

	if filters.ClassID != nil {
		base = base.Where("subjects.class_id = ?", *filters.ClassID)
	}
	if filters.SubjectID != nil {
		base = base.Where("attendance_records.subject_id = ?", *filters.SubjectID)
	}
	if filters.DateFrom != nil {
		base = base.Where("attendance_records.date >= ?", filters.DateFrom.Format("2006-01-02"))
	}
	if filters.DateTo != nil {
		base = base.Where("attendance_records.date <= ?", filters.DateTo.Format("2006-01-02"))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).
		Select("COUNT(DISTINCT (attendance_records.date, attendance_records.time_slot_id, attendance_records.subject_id))").
		Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count lecture sessions: %w", err)
	}

	query := base.
		Select("attendance_records.date, attendance_records.time_slot_id, attendance_records.subject_id, " +
			"subjects.name as subject_name, classes.name as class_name, " +
			"COUNT(*) as total, SUM(CASE WHEN attendance_records.is_present THEN 1 ELSE 0 END) as present").
		Group("attendance_records.date, attendance_records.time_slot_id, attendance_records.subject_id, subjects.name, classes.name").
		Order("attendance_records.date DESC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var sessions []repositories.LectureSessionData
	if err := query.Scan(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load lecture sessions: %w", err)
	}

	return sessions, total, nil
}

func (r *attendanceRepository) GetAveragePresence(ctx context.Context, tx *gorm.DB) (float64, error) {
	db := r.getDB(tx)

	var result struct {
		Avg float64
	}
	if err := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Select("COALESCE(AVG(CASE WHEN is_present THEN 1.0 ELSE 0.0 END), 0) as avg").
		Scan(&result).Error; err != nil {
		return 0, fmt.Errorf("failed to compute average presence: %w", err)
	}

	return result.Avg, nil
}

func (r *attendanceRepository) CountSessionsOn(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("date = ?", date.Format("2006-01-02")).
		Select("COUNT(DISTINCT (subject_id, time_slot_id))").
		Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}
