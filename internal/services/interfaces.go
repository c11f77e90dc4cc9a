package services

import (
	"context"
	"io"
	"time"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

// ===== USER DTOs =====

type CreateUserRequest struct {
	Username  string          `json:"username" validate:"required,username"`
	Password  string          `json:"password" validate:"required,min=8,max=128"`
	FirstName string          `json:"first_name" validate:"required,max=150"`
	LastName  string          `json:"last_name" validate:"required,max=150"`
	Email     string          `json:"email" validate:"required,email"`
	Role      models.UserRole `json:"role" validate:"required,user_role"`

	// Student-only fields
	RollNo  *string `json:"roll_no" validate:"omitempty,roll_no"`
	ClassID *uint   `json:"class_id"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=128"`
	ClassID   *uint   `json:"class_id"`
}

type UserResponse struct {
	*models.User
	RollNo    *string `json:"roll_no,omitempty"`
	ClassID   *uint   `json:"class_id,omitempty"`
	ClassName *string `json:"class_name,omitempty"`
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

// ===== ACADEMIC DTOs =====

type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type CreateClassRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	DepartmentID uint   `json:"department_id" validate:"required"`
}

type CreateSubjectRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	ClassID   uint    `json:"class_id" validate:"required"`
	FacultyID *string `json:"faculty_id"`
}

type UpdateSubjectRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	FacultyID *string `json:"faculty_id"`
}

type CreateTimeSlotRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type CreateTimetableRequest struct {
	SubjectID  uint `json:"subject_id" validate:"required"`
	DayOfWeek  int  `json:"day_of_week" validate:"required,day_of_week"`
	TimeSlotID uint `json:"time_slot_id" validate:"required"`
}

type TimetableEntryResponse struct {
	ID          uint   `json:"id"`
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	ClassID     uint   `json:"class_id"`
	ClassName   string `json:"class_name"`
	DayOfWeek   int    `json:"day_of_week"`
	TimeSlotID  uint   `json:"time_slot_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	FacultyName string `json:"faculty_name,omitempty"`
}

// ===== ATTENDANCE DTOs =====

type AttendanceEntry struct {
	StudentID uint `json:"student_id" validate:"required"`
	Present   bool `json:"present"`
}

type MarkAttendanceRequest struct {
	SubjectID  uint              `json:"subject_id" validate:"required"`
	Date       string            `json:"date" validate:"required,date_string"`
	TimeSlotID *uint             `json:"time_slot_id"`
	Entries    []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

type UpdateAttendanceRequest struct {
	IsPresent bool `json:"is_present"`
}

type AttendanceRecordResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	RollNo      string    `json:"roll_no"`
	SubjectID   uint      `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	ClassName   string    `json:"class_name"`
	Date        string    `json:"date"`
	TimeSlotID  *uint     `json:"time_slot_id,omitempty"`
	IsPresent   bool      `json:"is_present"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
	Editable    bool      `json:"editable"`
}

type AttendanceListResponse struct {
	Records []*AttendanceRecordResponse `json:"records"`
	Total   int64                       `json:"total"`
	Page    int                         `json:"page"`
	Size    int                         `json:"size"`
}

type MarkAttendanceResult struct {
	Saved int `json:"saved"`
}

// ===== REPORT DTOs =====

type SubjectAttendanceRow struct {
	StudentID   uint    `json:"student_id"`
	RollNo      string  `json:"roll_no"`
	StudentName string  `json:"student_name"`
	Present     int64   `json:"present"`
	Conducted   int64   `json:"conducted"`
	Percentage  float64 `json:"percentage"`
}

type SubjectAttendanceReport struct {
	SubjectID         uint                   `json:"subject_id"`
	SubjectName       string                 `json:"subject_name"`
	ClassID           uint                   `json:"class_id"`
	ClassName         string                 `json:"class_name"`
	LecturesConducted int64                  `json:"lectures_conducted"`
	Rows              []SubjectAttendanceRow `json:"rows"`
	AveragePercentage float64                `json:"average_percentage"`
}

type LowAttendanceRow struct {
	StudentID   uint    `json:"student_id"`
	StudentName string  `json:"student_name"`
	RollNo      string  `json:"roll_no"`
	Percentage  float64 `json:"percentage"`
}

type LowAttendanceReport struct {
	Threshold float64            `json:"threshold"`
	Students  []LowAttendanceRow `json:"students"`
}

type SubjectRef struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
}

// ConsolidatedCell is one student's standing in one subject.
type ConsolidatedCell struct {
	Attended   int64   `json:"attended"`
	Conducted  int64   `json:"conducted"`
	Percentage float64 `json:"percentage"`
}

type ConsolidatedRow struct {
	StudentID      uint                      `json:"student_id"`
	RollNo         string                    `json:"roll_no"`
	StudentName    string                    `json:"student_name"`
	Cells          map[uint]ConsolidatedCell `json:"cells"`
	TotalAttended  int64                     `json:"total_attended"`
	TotalConducted int64                     `json:"total_conducted"`
	Overall        float64                   `json:"overall"`
}

type ConsolidatedReport struct {
	ClassID   uint              `json:"class_id"`
	ClassName string            `json:"class_name"`
	Subjects  []SubjectRef      `json:"subjects"`
	Rows      []ConsolidatedRow `json:"rows"`

	// Students at or above the low-attendance threshold versus below it.
	AboveThreshold int     `json:"above_threshold"`
	BelowThreshold int     `json:"below_threshold"`
	ClassAverage   float64 `json:"class_average"`
}

type LectureHistoryEntry struct {
	Date        string  `json:"date"`
	TimeSlotID  *uint   `json:"time_slot_id,omitempty"`
	SubjectID   uint    `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	ClassName   string  `json:"class_name"`
	Present     int64   `json:"present"`
	Total       int64   `json:"total"`
	Percentage  float64 `json:"percentage"`
}

type LectureHistoryResponse struct {
	Entries []LectureHistoryEntry `json:"entries"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Size    int                   `json:"size"`
}

type AdminDashboardResponse struct {
	TotalStudents     int64   `json:"total_students"`
	TotalFaculty      int64   `json:"total_faculty"`
	TotalClasses      int64   `json:"total_classes"`
	TotalSubjects     int64   `json:"total_subjects"`
	TotalDepartments  int64   `json:"total_departments"`
	PendingLeaves     int64   `json:"pending_leaves"`
	AverageAttendance float64 `json:"average_attendance"`
	SessionsToday     int64   `json:"sessions_today"`
}

type FacultyDashboardResponse struct {
	SubjectCount   int                      `json:"subject_count"`
	Subjects       []SubjectRef             `json:"subjects"`
	TodayTimetable []TimetableEntryResponse `json:"today_timetable"`
}

type StudentSubjectSummary struct {
	SubjectID   uint    `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Present     int64   `json:"present"`
	Conducted   int64   `json:"conducted"`
	Percentage  float64 `json:"percentage"`
}

type StudentDashboardResponse struct {
	RollNo        string                  `json:"roll_no"`
	ClassName     string                  `json:"class_name"`
	Subjects      []StudentSubjectSummary `json:"subjects"`
	Overall       float64                 `json:"overall"`
	LowAttendance bool                    `json:"low_attendance"`
}

// ===== LEAVE DTOs =====

type CreateLeaveRequest struct {
	StartDate string `json:"start_date" validate:"required,date_string"`
	EndDate   string `json:"end_date" validate:"required,date_string"`
	Reason    string `json:"reason" validate:"required,max=2000"`
}

type DecideLeaveRequest struct {
	Status models.LeaveStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

type LeaveResponse struct {
	*models.LeaveRequest
	ApplicantName string `json:"applicant_name,omitempty"`
}

type LeaveListResponse struct {
	Requests []*LeaveResponse `json:"requests"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
}

// ===== ANNOUNCEMENT DTOs =====

type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

type AnnouncementResponse struct {
	*models.Announcement
	PostedByName string `json:"posted_by_name,omitempty"`
}

// ===== CHATBOT DTOs =====

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// ===== IMPORT DTOs =====

type ImportResult struct {
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest, actorID string) (*UserResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*UserResponse, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest, actorID string) (*UserResponse, error)
	Delete(ctx context.Context, id string, actorID string) error
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
}

type AcademicService interface {
	// Departments
	CreateDepartment(ctx context.Context, req *CreateDepartmentRequest) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]*models.Department, error)
	DeleteDepartment(ctx context.Context, id uint) error

	// Classes
	CreateClass(ctx context.Context, req *CreateClassRequest) (*models.Class, error)
	GetClass(ctx context.Context, id uint) (*models.Class, error)
	ListClasses(ctx context.Context) ([]*models.Class, error)
	DeleteClass(ctx context.Context, id uint) error

	// Subjects
	CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id uint, req *UpdateSubjectRequest) (*models.Subject, error)
	ListSubjects(ctx context.Context, classID *uint) ([]*models.Subject, error)
	ListSubjectsByFaculty(ctx context.Context, facultyID string) ([]*models.Subject, error)
	DeleteSubject(ctx context.Context, id uint) error

	// Time slots
	CreateTimeSlot(ctx context.Context, req *CreateTimeSlotRequest) (*models.TimeSlot, error)
	ListTimeSlots(ctx context.Context) ([]*models.TimeSlot, error)
	DeleteTimeSlot(ctx context.Context, id uint) error

	// Timetables
	CreateTimetableEntry(ctx context.Context, req *CreateTimetableRequest) (*TimetableEntryResponse, error)
	DeleteTimetableEntry(ctx context.Context, id uint) error
	GetClassTimetable(ctx context.Context, classID uint) ([]TimetableEntryResponse, error)
	GetFacultyTimetable(ctx context.Context, facultyID string) ([]TimetableEntryResponse, error)
}

type AttendanceService interface {
	Mark(ctx context.Context, req *MarkAttendanceRequest, facultyID string) (*MarkAttendanceResult, error)
	Update(ctx context.Context, id uint, req *UpdateAttendanceRequest, actorID string, actorRole models.UserRole) (*AttendanceRecordResponse, error)
	List(ctx context.Context, filters repositories.AttendanceFilters) (*AttendanceListResponse, error)
	ExportCSV(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error)
	ExportXLSX(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error)
}

type ReportService interface {
	GetSubjectAttendance(ctx context.Context, subjectID uint) (*SubjectAttendanceReport, error)
	GetLowAttendanceReport(ctx context.Context) (*LowAttendanceReport, error)
	GetConsolidatedReport(ctx context.Context, classID uint) (*ConsolidatedReport, error)
	GetLectureHistory(ctx context.Context, filters repositories.LectureHistoryFilters) (*LectureHistoryResponse, error)

	GetAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error)
	GetFacultyDashboard(ctx context.Context, facultyID string) (*FacultyDashboardResponse, error)
	GetStudentDashboard(ctx context.Context, userID string) (*StudentDashboardResponse, error)
}

type ImportService interface {
	ImportStudents(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportFaculty(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type ChatbotService interface {
	Ask(ctx context.Context, message string) (*ChatResponse, error)
}

type LeaveService interface {
	Apply(ctx context.Context, req *CreateLeaveRequest, userID string) (*LeaveResponse, error)
	Decide(ctx context.Context, id uint, req *DecideLeaveRequest, adminID string) (*LeaveResponse, error)
	GetByID(ctx context.Context, id uint, actorID string, actorRole models.UserRole) (*LeaveResponse, error)
	List(ctx context.Context, filters repositories.LeaveFilters) (*LeaveListResponse, error)
	ListMine(ctx context.Context, userID string, filters repositories.LeaveFilters) (*LeaveListResponse, error)
}

type AnnouncementService interface {
	Post(ctx context.Context, req *CreateAnnouncementRequest, posterID string) (*AnnouncementResponse, error)
	List(ctx context.Context, limit int) ([]*AnnouncementResponse, error)
	Delete(ctx context.Context, id uint, actorID string, actorRole models.UserRole) error
}

// NotificationService fans out leave and announcement events to the bus and
// the mailer. Every method is best-effort: callers log failures and move on.
type NotificationService interface {
	NotifyLeaveRequested(ctx context.Context, leave *models.LeaveRequest, applicant *models.User) error
	NotifyLeaveDecided(ctx context.Context, leave *models.LeaveRequest, applicant *models.User) error
	NotifyAnnouncementPosted(ctx context.Context, announcement *models.Announcement) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	User() UserService
	Academic() AcademicService
	Attendance() AttendanceService
	Report() ReportService
	Import() ImportService
	Chatbot() ChatbotService
	Leave() LeaveService
	Announcement() AnnouncementService
	Notification() NotificationService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
