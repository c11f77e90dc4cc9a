package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/cache"
	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

func newTestReportService(repo repositories.Repository) ReportService {
	return NewReportService(repo, nil, testLogger(), cache.NewCacheManager(nil))
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		present   int64
		conducted int64
		want      float64
	}{
		{name: "full attendance", present: 10, conducted: 10, want: 100},
		{name: "half attendance", present: 1, conducted: 2, want: 50},
		{name: "rounds to two decimals", present: 1, conducted: 3, want: 33.33},
		{name: "zero conducted yields zero", present: 0, conducted: 0, want: 0},
		{name: "negative conducted yields zero", present: 1, conducted: -1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentage(tt.present, tt.conducted); got != tt.want {
				t.Errorf("percentage(%d, %d) = %v, want %v", tt.present, tt.conducted, got, tt.want)
			}
		})
	}
}

func TestIsoWeekday(t *testing.T) {
	// 2025-06-02 is a Monday, 2025-06-08 a Sunday.
	monday := mustDate(t, "2025-06-02")
	sunday := mustDate(t, "2025-06-08")

	if got := isoWeekday(monday); got != 1 {
		t.Errorf("isoWeekday(monday) = %d, want 1", got)
	}
	if got := isoWeekday(sunday); got != 7 {
		t.Errorf("isoWeekday(sunday) = %d, want 7", got)
	}
}

func TestReportService_GetSubjectAttendance(t *testing.T) {
	repo := newMockRepository()
	facultyID := "faculty-1"
	repo.subject.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
		return &models.Subject{
			ID:        1,
			Name:      "CS101",
			ClassID:   10,
			Class:     &models.Class{ID: 10, Name: "CS Year 1"},
			FacultyID: &facultyID,
		}, nil
	}
	repo.student.ListByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error) {
		return []*models.StudentProfile{
			{ID: 1, RollNo: "R001", User: &models.User{FirstName: "Asha", LastName: "Verma"}},
			{ID: 2, RollNo: "R002", User: &models.User{FirstName: "Rohan", LastName: "Iyer"}},
		}, nil
	}
	repo.attendance.GetLecturesConductedFn = func(ctx context.Context, tx *gorm.DB, subjectIDs []uint) ([]repositories.SubjectLectureCount, error) {
		return []repositories.SubjectLectureCount{{SubjectID: 1, Lectures: 2}}, nil
	}
	repo.attendance.GetPresentCountsByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]repositories.StudentSubjectPresence, error) {
		return []repositories.StudentSubjectPresence{
			{StudentID: 1, SubjectID: 1, Present: 2},
			{StudentID: 2, SubjectID: 1, Present: 1},
		}, nil
	}

	svc := newTestReportService(repo)

	report, err := svc.GetSubjectAttendance(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetSubjectAttendance() error = %v", err)
	}

	if report.SubjectName != "CS101" || report.ClassName != "CS Year 1" {
		t.Errorf("report header = %q/%q, want CS101/CS Year 1", report.SubjectName, report.ClassName)
	}
	if report.LecturesConducted != 2 {
		t.Errorf("LecturesConducted = %d, want 2", report.LecturesConducted)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(report.Rows))
	}
	if report.Rows[0].Percentage != 100 {
		t.Errorf("first row percentage = %v, want 100", report.Rows[0].Percentage)
	}
	if report.Rows[1].Percentage != 50 {
		t.Errorf("second row percentage = %v, want 50", report.Rows[1].Percentage)
	}
	if report.AveragePercentage != 75 {
		t.Errorf("AveragePercentage = %v, want 75", report.AveragePercentage)
	}
}

func TestReportService_GetSubjectAttendance_NotFound(t *testing.T) {
	svc := newTestReportService(newMockRepository())

	_, err := svc.GetSubjectAttendance(context.Background(), 999)
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("GetSubjectAttendance() error = %v, want ErrSubjectNotFound", err)
	}
}

func TestReportService_GetLowAttendanceReport(t *testing.T) {
	repo := newMockRepository()
	repo.attendance.GetStudentPresenceTotalsFn = func(ctx context.Context, tx *gorm.DB) ([]repositories.StudentPresenceTotals, error) {
		return []repositories.StudentPresenceTotals{
			{StudentID: 1, RollNo: "R001", FirstName: "Asha", LastName: "Verma", Present: 7, Total: 10},
			{StudentID: 2, RollNo: "R002", FirstName: "Rohan", LastName: "Iyer", Present: 5, Total: 10},
			{StudentID: 3, RollNo: "R003", FirstName: "Meera", Present: 8, Total: 10},
			{StudentID: 4, RollNo: "R004", FirstName: "Unmarked", Present: 0, Total: 0},
		}, nil
	}

	svc := newTestReportService(repo)

	report, err := svc.GetLowAttendanceReport(context.Background())
	if err != nil {
		t.Fatalf("GetLowAttendanceReport() error = %v", err)
	}

	if report.Threshold != LowAttendanceThreshold {
		t.Errorf("Threshold = %v, want %v", report.Threshold, LowAttendanceThreshold)
	}
	// Student 3 sits at exactly 80%, student 4 has no marked lectures.
	// Only students 1 and 2 fall below the threshold, worst first.
	if len(report.Students) != 2 {
		t.Fatalf("len(Students) = %d, want 2", len(report.Students))
	}
	if report.Students[0].StudentID != 2 || report.Students[0].Percentage != 50 {
		t.Errorf("first flagged = %+v, want student 2 at 50%%", report.Students[0])
	}
	if report.Students[1].StudentID != 1 || report.Students[1].Percentage != 70 {
		t.Errorf("second flagged = %+v, want student 1 at 70%%", report.Students[1])
	}
	if report.Students[0].StudentName != "Rohan Iyer" {
		t.Errorf("StudentName = %q, want %q", report.Students[0].StudentName, "Rohan Iyer")
	}
}

func TestReportService_GetConsolidatedReport(t *testing.T) {
	repo := newMockRepository()
	repo.class.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
		return &models.Class{ID: 10, Name: "CS Year 1"}, nil
	}
	repo.subject.ListByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Subject, error) {
		return []*models.Subject{
			{ID: 1, Name: "CS101", ClassID: 10},
			{ID: 2, Name: "MA101", ClassID: 10},
		}, nil
	}
	repo.attendance.GetLecturesConductedFn = func(ctx context.Context, tx *gorm.DB, subjectIDs []uint) ([]repositories.SubjectLectureCount, error) {
		return []repositories.SubjectLectureCount{
			{SubjectID: 1, Lectures: 10},
			{SubjectID: 2, Lectures: 10},
		}, nil
	}
	repo.attendance.GetPresentCountsByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]repositories.StudentSubjectPresence, error) {
		return []repositories.StudentSubjectPresence{
			{StudentID: 1, SubjectID: 1, Present: 10},
			{StudentID: 1, SubjectID: 2, Present: 5},
			{StudentID: 2, SubjectID: 1, Present: 5},
		}, nil
	}
	repo.student.ListByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error) {
		return []*models.StudentProfile{
			{ID: 1, RollNo: "R001", User: &models.User{FirstName: "Asha", LastName: "Verma"}},
			{ID: 2, RollNo: "R002", User: &models.User{FirstName: "Rohan", LastName: "Iyer"}},
		}, nil
	}

	svc := newTestReportService(repo)

	report, err := svc.GetConsolidatedReport(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetConsolidatedReport() error = %v", err)
	}

	if len(report.Subjects) != 2 || len(report.Rows) != 2 {
		t.Fatalf("report shape = %d subjects / %d rows, want 2/2", len(report.Subjects), len(report.Rows))
	}

	row := report.Rows[0]
	if got := row.Cells[1]; got.Attended != 10 || got.Conducted != 10 || got.Percentage != 100 {
		t.Errorf("Cells[1] = %+v, want 10/10 at 100%%", got)
	}
	if got := row.Cells[2]; got.Attended != 5 || got.Conducted != 10 || got.Percentage != 50 {
		t.Errorf("Cells[2] = %+v, want 5/10 at 50%%", got)
	}
	if row.TotalAttended != 15 || row.TotalConducted != 20 {
		t.Errorf("row totals = %d/%d, want 15/20", row.TotalAttended, row.TotalConducted)
	}
	// Overall is presence over conducted across subjects, not a mean of means.
	if row.Overall != 75 {
		t.Errorf("Overall = %v, want 75", row.Overall)
	}

	// Student 2 attended 5 of 20 lectures overall.
	if got := report.Rows[1].Overall; got != 25 {
		t.Errorf("second row Overall = %v, want 25", got)
	}

	// 75% sits exactly at the threshold, so student 1 counts as above.
	if report.AboveThreshold != 1 || report.BelowThreshold != 1 {
		t.Errorf("threshold split = %d above / %d below, want 1/1",
			report.AboveThreshold, report.BelowThreshold)
	}
	if report.ClassAverage != 50 {
		t.Errorf("ClassAverage = %v, want 50", report.ClassAverage)
	}
}

func TestReportService_GetConsolidatedReport_ClassNotFound(t *testing.T) {
	svc := newTestReportService(newMockRepository())

	_, err := svc.GetConsolidatedReport(context.Background(), 999)
	if !errors.Is(err, ErrClassNotFound) {
		t.Errorf("GetConsolidatedReport() error = %v, want ErrClassNotFound", err)
	}
}

func TestReportService_GetStudentDashboard(t *testing.T) {
	repo := newMockRepository()
	repo.student.GetByUserIDFn = func(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
		return &models.StudentProfile{
			ID:      1,
			RollNo:  "R001",
			ClassID: 10,
			Class:   &models.Class{ID: 10, Name: "CS Year 1"},
		}, nil
	}
	repo.subject.ListByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Subject, error) {
		return []*models.Subject{
			{ID: 1, Name: "CS101"},
			{ID: 2, Name: "MA101"},
		}, nil
	}
	repo.attendance.GetStudentSubjectTotalsFn = func(ctx context.Context, tx *gorm.DB, studentID uint) ([]repositories.StudentSubjectPresence, []repositories.SubjectLectureCount, error) {
		presence := []repositories.StudentSubjectPresence{
			{StudentID: 1, SubjectID: 1, Present: 6},
			{StudentID: 1, SubjectID: 2, Present: 8},
		}
		lectures := []repositories.SubjectLectureCount{
			{SubjectID: 1, Lectures: 10},
			{SubjectID: 2, Lectures: 10},
		}
		return presence, lectures, nil
	}

	svc := newTestReportService(repo)

	resp, err := svc.GetStudentDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetStudentDashboard() error = %v", err)
	}

	if resp.RollNo != "R001" || resp.ClassName != "CS Year 1" {
		t.Errorf("identity = %q/%q, want R001/CS Year 1", resp.RollNo, resp.ClassName)
	}
	if len(resp.Subjects) != 2 {
		t.Fatalf("len(Subjects) = %d, want 2", len(resp.Subjects))
	}
	// Sorted by subject name.
	if resp.Subjects[0].SubjectName != "CS101" || resp.Subjects[0].Percentage != 60 {
		t.Errorf("first subject = %+v, want CS101 at 60%%", resp.Subjects[0])
	}
	if resp.Overall != 70 {
		t.Errorf("Overall = %v, want 70", resp.Overall)
	}
	if !resp.LowAttendance {
		t.Error("LowAttendance = false, want true for 70%")
	}
}

func TestReportService_GetStudentDashboard_NoProfile(t *testing.T) {
	svc := newTestReportService(newMockRepository())

	_, err := svc.GetStudentDashboard(context.Background(), "ghost")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("GetStudentDashboard() error = %v, want ErrStudentNotFound", err)
	}
}

func TestReportService_GetAdminDashboard(t *testing.T) {
	repo := newMockRepository()
	repo.dashboard.TotalStudentsFn = func(ctx context.Context, tx *gorm.DB) (int64, error) { return 120, nil }
	repo.dashboard.TotalFacultyFn = func(ctx context.Context, tx *gorm.DB) (int64, error) { return 15, nil }
	repo.dashboard.PendingLeaveCountFn = func(ctx context.Context, tx *gorm.DB) (int64, error) { return 3, nil }
	repo.attendance.GetAveragePresenceFn = func(ctx context.Context, tx *gorm.DB) (float64, error) { return 0.825, nil }
	repo.attendance.CountSessionsOnFn = func(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error) { return 4, nil }

	svc := newTestReportService(repo)

	resp, err := svc.GetAdminDashboard(context.Background())
	if err != nil {
		t.Fatalf("GetAdminDashboard() error = %v", err)
	}
	if resp.TotalStudents != 120 || resp.TotalFaculty != 15 {
		t.Errorf("totals = %d/%d, want 120/15", resp.TotalStudents, resp.TotalFaculty)
	}
	if resp.PendingLeaves != 3 {
		t.Errorf("PendingLeaves = %d, want 3", resp.PendingLeaves)
	}
	// The repository reports a presence fraction; the dashboard shows it as
	// a percentage.
	if resp.AverageAttendance != 82.5 {
		t.Errorf("AverageAttendance = %v, want 82.5", resp.AverageAttendance)
	}
	if resp.SessionsToday != 4 {
		t.Errorf("SessionsToday = %d, want 4", resp.SessionsToday)
	}
}
