package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/cache"
	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

// exportHeader is the column layout shared by CSV and XLSX exports.
var exportHeader = []string{"Date", "Roll No", "Student Name", "Course", "Subject", "Status", "Last Updated"}

type attendanceService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
}

func NewAttendanceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cacheManager *cache.CacheManager) AttendanceService {
	return &attendanceService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		cache:     cacheManager,
	}
}

// ===== MARKING =====

func (s *attendanceService) Mark(ctx context.Context, req *MarkAttendanceRequest, facultyID string) (*MarkAttendanceResult, error) {
	s.logger.Info("Marking attendance",
		"faculty_id", facultyID,
		"subject_id", req.SubjectID,
		"date", req.Date,
		"entries", len(req.Entries))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject().GetByID(ctx, nil, req.SubjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	if err := s.checkSubjectAccess(ctx, subject, facultyID, "mark_attendance"); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date: %v", ErrValidationFailed, err)
	}

	if req.TimeSlotID != nil {
		if _, err := s.repo.TimeSlot().GetByID(ctx, nil, *req.TimeSlotID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrTimeSlotNotFound
			}
			return nil, fmt.Errorf("failed to get time slot: %w", err)
		}
	}

	// Every entry must be a student of the subject's class.
	students, err := s.repo.Student().ListByClass(ctx, nil, subject.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to load class roster: %w", err)
	}
	roster := make(map[uint]bool, len(students))
	for _, st := range students {
		roster[st.ID] = true
	}

	records := make([]*models.Attendance, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if !roster[entry.StudentID] {
			return nil, fmt.Errorf("%w: student %d is not enrolled in this class", ErrValidationFailed, entry.StudentID)
		}
		records = append(records, &models.Attendance{
			StudentID:  entry.StudentID,
			SubjectID:  req.SubjectID,
			Date:       datatypes.Date(date),
			TimeSlotID: req.TimeSlotID,
			IsPresent:  entry.Present,
		})
	}

	if err := s.repo.Attendance().Upsert(ctx, nil, records); err != nil {
		return nil, err
	}

	cache.InvalidateAttendanceCache(ctx, s.cache, subject.ClassID)

	return &MarkAttendanceResult{Saved: len(records)}, nil
}

func (s *attendanceService) Update(ctx context.Context, id uint, req *UpdateAttendanceRequest, actorID string, actorRole models.UserRole) (*AttendanceRecordResponse, error) {
	s.logger.Info("Updating attendance record", "attendance_id", id, "actor_id", actorID)

	record, err := s.repo.Attendance().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if actorRole != models.RoleAdmin {
		if record.Subject == nil || record.Subject.FacultyID == nil || *record.Subject.FacultyID != actorID {
			return nil, NewPermissionError(actorID, id, "attendance", "update", "not the subject's faculty")
		}
		// Faculty edits freeze once the record is a day old. Admins may
		// correct at any time.
		if errs := s.validator.GetBusinessValidator().ValidateAttendanceEdit(record.UpdatedAt, time.Now()); len(errs) > 0 {
			return nil, ErrEditWindowExpired
		}
	}

	record.IsPresent = req.IsPresent
	if err := s.repo.Attendance().Update(ctx, nil, record); err != nil {
		return nil, err
	}

	if record.Student != nil {
		cache.InvalidateAttendanceCache(ctx, s.cache, record.Student.ClassID)
	}

	updated, err := s.repo.Attendance().GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload attendance record: %w", err)
	}

	return s.toRecordResponse(updated), nil
}

func (s *attendanceService) checkSubjectAccess(ctx context.Context, subject *models.Subject, actorID, action string) error {
	if subject.FacultyID != nil && *subject.FacultyID == actorID {
		return nil
	}

	isAdmin, err := s.repo.User().HasRole(ctx, nil, actorID, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}
	if !isAdmin {
		return NewPermissionError(actorID, subject.ID, "subject", action, "not the subject's faculty")
	}
	return nil
}

// ===== LISTING =====

func (s *attendanceService) List(ctx context.Context, filters repositories.AttendanceFilters) (*AttendanceListResponse, error) {
	records, total, err := s.repo.Attendance().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]*AttendanceRecordResponse, len(records))
	for i, record := range records {
		responses[i] = s.toRecordResponse(record)
	}

	return &AttendanceListResponse{
		Records: responses,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    filters.Limit,
	}, nil
}

// ===== EXPORT =====

func (s *attendanceService) ExportCSV(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error) {
	s.logger.Info("Exporting attendance as CSV")

	records, err := s.repo.Attendance().ListForExport(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(exportRow(record)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *attendanceService) ExportXLSX(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error) {
	s.logger.Info("Exporting attendance as XLSX")

	records, err := s.repo.Attendance().ListForExport(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		cols := exportRow(record)
		row := make([]interface{}, len(cols))
		for j, v := range cols {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize xlsx: %w", err)
	}

	return buf.Bytes(), nil
}

func exportRow(record *models.Attendance) []string {
	var rollNo, studentName, className, subjectName string
	if record.Student != nil {
		rollNo = record.Student.RollNo
		if record.Student.User != nil {
			studentName = record.Student.User.FullName()
		}
		if record.Student.Class != nil {
			className = record.Student.Class.Name
		}
	}
	if record.Subject != nil {
		subjectName = record.Subject.Name
	}

	return []string{
		time.Time(record.Date).Format("2006-01-02"),
		rollNo,
		studentName,
		className,
		subjectName,
		record.StatusLabel(),
		record.UpdatedAt.Format("2006-01-02 15:04"),
	}
}

// ===== HELPERS =====

func (s *attendanceService) toRecordResponse(record *models.Attendance) *AttendanceRecordResponse {
	resp := &AttendanceRecordResponse{
		ID:         record.ID,
		StudentID:  record.StudentID,
		SubjectID:  record.SubjectID,
		Date:       time.Time(record.Date).Format("2006-01-02"),
		TimeSlotID: record.TimeSlotID,
		IsPresent:  record.IsPresent,
		Status:     record.StatusLabel(),
		UpdatedAt:  record.UpdatedAt,
		Editable:   time.Since(record.UpdatedAt) <= validator.AttendanceEditWindow,
	}

	if record.Student != nil {
		resp.RollNo = record.Student.RollNo
		if record.Student.User != nil {
			resp.StudentName = record.Student.User.FullName()
		}
		if record.Student.Class != nil {
			resp.ClassName = record.Student.Class.Name
		}
	}
	if record.Subject != nil {
		resp.SubjectName = record.Subject.Name
	}

	return resp
}
