package repositories

import (
	"time"

	"github.com/opencampus/academics-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // Search query for name, username or email
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type AttendanceFilters struct {
	ClassID   *uint      `json:"class_id"`
	SubjectID *uint      `json:"subject_id"`
	FacultyID *string    `json:"faculty_id"`
	StudentID *uint      `json:"student_id"`
	Date      *time.Time `json:"date"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Query     string     `json:"query"` // Matches student name or roll number
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

type LeaveFilters struct {
	UserID *string             `json:"user_id"`
	Status *models.LeaveStatus `json:"status"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type LectureHistoryFilters struct {
	ClassID   *uint      `json:"class_id"`
	SubjectID *uint      `json:"subject_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// SubjectLectureCount is one subject's number of conducted lectures.
// A lecture is a distinct (date, time slot) pair with any record for the subject.
type SubjectLectureCount struct {
	SubjectID uint  `json:"subject_id"`
	Lectures  int64 `json:"lectures"`
}

// StudentSubjectPresence is a student's present-row count for one subject.
type StudentSubjectPresence struct {
	StudentID uint  `json:"student_id"`
	SubjectID uint  `json:"subject_id"`
	Present   int64 `json:"present"`
}

// StudentPresenceTotals is a student's overall marked/present row counts
// across every subject, joined with identity fields for report rows.
type StudentPresenceTotals struct {
	StudentID uint   `json:"student_id"`
	RollNo    string `json:"roll_no"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Present   int64  `json:"present"`
	Total     int64  `json:"total"`
}

// LectureSessionData is one conducted lecture with its headcount.
type LectureSessionData struct {
	Date        time.Time `json:"date"`
	TimeSlotID  *uint     `json:"time_slot_id"`
	SubjectID   uint      `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	ClassName   string    `json:"class_name"`
	Total       int64     `json:"total"`
	Present     int64     `json:"present"`
}
