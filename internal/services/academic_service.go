package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

type academicService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAcademicService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AcademicService {
	return &academicService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== DEPARTMENTS =====

func (s *academicService) CreateDepartment(ctx context.Context, req *CreateDepartmentRequest) (*models.Department, error) {
	s.logger.Info("Creating department", "name", req.Name)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	department := &models.Department{Name: req.Name}
	if err := s.repo.Department().Create(ctx, nil, department); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEntity
		}
		return nil, err
	}

	return department, nil
}

func (s *academicService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.repo.Department().List(ctx, nil)
}

func (s *academicService) DeleteDepartment(ctx context.Context, id uint) error {
	s.logger.Info("Deleting department", "department_id", id)

	if err := s.repo.Department().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return nil
}

// ===== CLASSES =====

func (s *academicService) CreateClass(ctx context.Context, req *CreateClassRequest) (*models.Class, error) {
	s.logger.Info("Creating class", "name", req.Name, "department_id", req.DepartmentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Department().GetByID(ctx, nil, req.DepartmentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	class := &models.Class{Name: req.Name, DepartmentID: req.DepartmentID}
	if err := s.repo.Class().Create(ctx, nil, class); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEntity
		}
		return nil, err
	}

	return class, nil
}

func (s *academicService) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	class, err := s.repo.Class().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

func (s *academicService) ListClasses(ctx context.Context) ([]*models.Class, error) {
	return s.repo.Class().List(ctx, nil)
}

func (s *academicService) DeleteClass(ctx context.Context, id uint) error {
	s.logger.Info("Deleting class", "class_id", id)

	if err := s.repo.Class().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrClassNotFound
		}
		return err
	}
	return nil
}

// ===== SUBJECTS =====

func (s *academicService) CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error) {
	s.logger.Info("Creating subject", "name", req.Name, "class_id", req.ClassID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Class().GetByID(ctx, nil, req.ClassID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	if req.FacultyID != nil {
		if err := s.checkFaculty(ctx, *req.FacultyID); err != nil {
			return nil, err
		}
	}

	subject := &models.Subject{
		Name:      req.Name,
		ClassID:   req.ClassID,
		FacultyID: req.FacultyID,
	}
	if err := s.repo.Subject().Create(ctx, nil, subject); err != nil {
		return nil, err
	}

	return s.repo.Subject().GetByID(ctx, nil, subject.ID)
}

func (s *academicService) UpdateSubject(ctx context.Context, id uint, req *UpdateSubjectRequest) (*models.Subject, error) {
	s.logger.Info("Updating subject", "subject_id", id)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.FacultyID != nil {
		if err := s.checkFaculty(ctx, *req.FacultyID); err != nil {
			return nil, err
		}
		subject.FacultyID = req.FacultyID
		subject.Faculty = nil
	}

	if err := s.repo.Subject().Update(ctx, nil, subject); err != nil {
		return nil, err
	}

	return s.repo.Subject().GetByID(ctx, nil, id)
}

func (s *academicService) ListSubjects(ctx context.Context, classID *uint) ([]*models.Subject, error) {
	if classID != nil {
		return s.repo.Subject().ListByClass(ctx, nil, *classID)
	}
	return s.repo.Subject().List(ctx, nil)
}

func (s *academicService) ListSubjectsByFaculty(ctx context.Context, facultyID string) ([]*models.Subject, error) {
	return s.repo.Subject().ListByFaculty(ctx, nil, facultyID)
}

func (s *academicService) DeleteSubject(ctx context.Context, id uint) error {
	s.logger.Info("Deleting subject", "subject_id", id)

	if err := s.repo.Subject().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return err
	}
	return nil
}

func (s *academicService) checkFaculty(ctx context.Context, facultyID string) error {
	isFaculty, err := s.repo.User().HasRole(ctx, nil, facultyID, models.RoleFaculty)
	if err != nil {
		return fmt.Errorf("failed to check faculty role: %w", err)
	}
	if !isFaculty {
		return fmt.Errorf("%w: user %s is not a faculty member", ErrValidationFailed, facultyID)
	}
	return nil
}

// ===== TIME SLOTS =====

func (s *academicService) CreateTimeSlot(ctx context.Context, req *CreateTimeSlotRequest) (*models.TimeSlot, error) {
	s.logger.Info("Creating time slot", "start", req.StartTime, "end", req.EndTime)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_time: %v", ErrValidationFailed, err)
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_time: %v", ErrValidationFailed, err)
	}
	if end <= start {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidationFailed)
	}

	slot := &models.TimeSlot{StartTime: start, EndTime: end}
	if err := s.repo.TimeSlot().Create(ctx, nil, slot); err != nil {
		return nil, err
	}

	return slot, nil
}

func (s *academicService) ListTimeSlots(ctx context.Context) ([]*models.TimeSlot, error) {
	return s.repo.TimeSlot().List(ctx, nil)
}

func (s *academicService) DeleteTimeSlot(ctx context.Context, id uint) error {
	s.logger.Info("Deleting time slot", "time_slot_id", id)

	if err := s.repo.TimeSlot().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTimeSlotNotFound
		}
		return err
	}
	return nil
}

// ===== TIMETABLES =====

func (s *academicService) CreateTimetableEntry(ctx context.Context, req *CreateTimetableRequest) (*TimetableEntryResponse, error) {
	s.logger.Info("Creating timetable entry",
		"subject_id", req.SubjectID,
		"day_of_week", req.DayOfWeek,
		"time_slot_id", req.TimeSlotID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateTimetableEntry(req.DayOfWeek); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Subject().GetByID(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if _, err := s.repo.TimeSlot().GetByID(ctx, nil, req.TimeSlotID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, fmt.Errorf("failed to get time slot: %w", err)
	}

	occupied, err := s.repo.Timetable().ExistsSlot(ctx, nil, req.SubjectID, req.DayOfWeek, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrTimetableConflict
	}

	entry := &models.Timetable{
		SubjectID:  req.SubjectID,
		DayOfWeek:  req.DayOfWeek,
		TimeSlotID: req.TimeSlotID,
	}
	if err := s.repo.Timetable().Create(ctx, nil, entry); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrTimetableConflict
		}
		return nil, err
	}

	full, err := s.repo.Timetable().GetByID(ctx, nil, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload timetable entry: %w", err)
	}

	resp := toTimetableResponse(full)
	return &resp, nil
}

func (s *academicService) DeleteTimetableEntry(ctx context.Context, id uint) error {
	s.logger.Info("Deleting timetable entry", "timetable_id", id)

	if err := s.repo.Timetable().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTimetableNotFound
		}
		return err
	}
	return nil
}

func (s *academicService) GetClassTimetable(ctx context.Context, classID uint) ([]TimetableEntryResponse, error) {
	if _, err := s.repo.Class().GetByID(ctx, nil, classID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	entries, err := s.repo.Timetable().ListByClass(ctx, nil, classID)
	if err != nil {
		return nil, err
	}

	return toTimetableResponses(entries), nil
}

func (s *academicService) GetFacultyTimetable(ctx context.Context, facultyID string) ([]TimetableEntryResponse, error) {
	entries, err := s.repo.Timetable().ListByFaculty(ctx, nil, facultyID)
	if err != nil {
		return nil, err
	}

	return toTimetableResponses(entries), nil
}

// ===== HELPERS =====

func parseClock(value string) (datatypes.Time, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return datatypes.Time(0), fmt.Errorf("expected HH:MM, got %q", value)
}

func formatClock(t datatypes.Time) string {
	s := t.String()
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

func toTimetableResponse(entry *models.Timetable) TimetableEntryResponse {
	resp := TimetableEntryResponse{
		ID:         entry.ID,
		SubjectID:  entry.SubjectID,
		DayOfWeek:  entry.DayOfWeek,
		TimeSlotID: entry.TimeSlotID,
	}

	if entry.Subject != nil {
		resp.SubjectName = entry.Subject.Name
		resp.ClassID = entry.Subject.ClassID
		if entry.Subject.Class != nil {
			resp.ClassName = entry.Subject.Class.Name
		}
		if entry.Subject.Faculty != nil {
			resp.FacultyName = entry.Subject.Faculty.FullName()
		}
	}
	if entry.TimeSlot != nil {
		resp.StartTime = formatClock(entry.TimeSlot.StartTime)
		resp.EndTime = formatClock(entry.TimeSlot.EndTime)
	}

	return resp
}

func toTimetableResponses(entries []*models.Timetable) []TimetableEntryResponse {
	responses := make([]TimetableEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toTimetableResponse(entry)
	}
	return responses
}
