package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/cache"
	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

func newTestAttendanceService(repo *mockRepository) AttendanceService {
	return NewAttendanceService(repo, nil, testLogger(), validator.New(), cache.NewCacheManager(nil))
}

func exportFixture(t *testing.T) *models.Attendance {
	t.Helper()
	facultyID := "faculty-1"
	return &models.Attendance{
		ID:        1,
		StudentID: 1,
		Student: &models.StudentProfile{
			ID:     1,
			RollNo: "R001",
			User:   &models.User{FirstName: "Asha", LastName: "Verma"},
			Class:  &models.Class{Name: "CS Year 1"},
		},
		SubjectID: 1,
		Subject:   &models.Subject{ID: 1, Name: "CS101", FacultyID: &facultyID},
		Date:      datatypes.Date(mustDate(t, "2025-06-02")),
		IsPresent: true,
		UpdatedAt: time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
	}
}

func TestAttendanceService_Mark(t *testing.T) {
	repo := newMockRepository()
	facultyID := "faculty-1"
	repo.subject.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
		return &models.Subject{ID: 1, Name: "CS101", ClassID: 10, FacultyID: &facultyID}, nil
	}
	repo.student.ListByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error) {
		return []*models.StudentProfile{{ID: 1}, {ID: 2}}, nil
	}
	var upserted []*models.Attendance
	repo.attendance.UpsertFn = func(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error {
		upserted = records
		return nil
	}

	svc := newTestAttendanceService(repo)

	result, err := svc.Mark(context.Background(), &MarkAttendanceRequest{
		SubjectID: 1,
		Date:      "2025-06-02",
		Entries: []AttendanceEntry{
			{StudentID: 1, Present: true},
			{StudentID: 2, Present: false},
		},
	}, "faculty-1")
	if err != nil {
		t.Fatalf("Mark() error = %v", err)
	}

	if result.Saved != 2 {
		t.Errorf("Saved = %d, want 2", result.Saved)
	}
	if len(upserted) != 2 {
		t.Fatalf("upserted %d records, want 2", len(upserted))
	}
	if !upserted[0].IsPresent || upserted[1].IsPresent {
		t.Errorf("presence flags = %v/%v, want true/false", upserted[0].IsPresent, upserted[1].IsPresent)
	}
}

func TestAttendanceService_Mark_RemarkOverwrites(t *testing.T) {
	repo := newMockRepository()
	facultyID := "faculty-1"
	repo.subject.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
		return &models.Subject{ID: 1, Name: "CS101", ClassID: 10, FacultyID: &facultyID}, nil
	}
	repo.student.ListByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error) {
		return []*models.StudentProfile{{ID: 1}, {ID: 2}}, nil
	}

	// Keyed the way the unique index keys rows: a nil time slot is the same
	// lecture as another nil time slot, never a fresh row.
	type lectureKey struct {
		studentID uint
		subjectID uint
		date      time.Time
		slotID    uint
	}
	store := make(map[lectureKey]bool)
	repo.attendance.UpsertFn = func(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error {
		for _, r := range records {
			k := lectureKey{studentID: r.StudentID, subjectID: r.SubjectID, date: time.Time(r.Date)}
			if r.TimeSlotID != nil {
				k.slotID = *r.TimeSlotID
			}
			store[k] = r.IsPresent
		}
		return nil
	}

	svc := newTestAttendanceService(repo)

	mark := func(first, second bool) {
		t.Helper()
		_, err := svc.Mark(context.Background(), &MarkAttendanceRequest{
			SubjectID: 1,
			Date:      "2025-06-02",
			Entries: []AttendanceEntry{
				{StudentID: 1, Present: first},
				{StudentID: 2, Present: second},
			},
		}, "faculty-1")
		if err != nil {
			t.Fatalf("Mark() error = %v", err)
		}
	}

	mark(true, false)
	mark(false, true)

	if len(store) != 2 {
		t.Fatalf("store holds %d records after re-marking, want 2", len(store))
	}
	for k, present := range store {
		want := k.studentID == 2
		if present != want {
			t.Errorf("student %d present = %v, want %v (latest mark wins)", k.studentID, present, want)
		}
	}
}

func TestAttendanceService_Mark_StudentNotInClass(t *testing.T) {
	repo := newMockRepository()
	facultyID := "faculty-1"
	repo.subject.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
		return &models.Subject{ID: 1, ClassID: 10, FacultyID: &facultyID}, nil
	}
	repo.student.ListByClassFn = func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error) {
		return []*models.StudentProfile{{ID: 1}}, nil
	}

	svc := newTestAttendanceService(repo)

	_, err := svc.Mark(context.Background(), &MarkAttendanceRequest{
		SubjectID: 1,
		Date:      "2025-06-02",
		Entries:   []AttendanceEntry{{StudentID: 99, Present: true}},
	}, "faculty-1")
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Mark() error = %v, want ErrValidationFailed", err)
	}
}

func TestAttendanceService_Mark_NotSubjectFaculty(t *testing.T) {
	repo := newMockRepository()
	otherFaculty := "faculty-2"
	repo.subject.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
		return &models.Subject{ID: 1, ClassID: 10, FacultyID: &otherFaculty}, nil
	}

	svc := newTestAttendanceService(repo)

	_, err := svc.Mark(context.Background(), &MarkAttendanceRequest{
		SubjectID: 1,
		Date:      "2025-06-02",
		Entries:   []AttendanceEntry{{StudentID: 1, Present: true}},
	}, "faculty-1")

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Mark() error = %v, want PermissionError", err)
	}
}

func TestAttendanceService_Update_EditWindow(t *testing.T) {
	facultyID := "faculty-1"

	tests := []struct {
		name      string
		updatedAt time.Time
		actorID   string
		actorRole models.UserRole
		wantErr   error
	}{
		{
			name:      "faculty inside window",
			updatedAt: time.Now().Add(-1 * time.Hour),
			actorID:   "faculty-1",
			actorRole: models.RoleFaculty,
		},
		{
			name:      "faculty outside window",
			updatedAt: time.Now().Add(-48 * time.Hour),
			actorID:   "faculty-1",
			actorRole: models.RoleFaculty,
			wantErr:   ErrEditWindowExpired,
		},
		{
			name:      "admin bypasses window",
			updatedAt: time.Now().Add(-48 * time.Hour),
			actorID:   "admin-1",
			actorRole: models.RoleAdmin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			record := &models.Attendance{
				ID:        1,
				Subject:   &models.Subject{ID: 1, FacultyID: &facultyID},
				IsPresent: false,
				UpdatedAt: tt.updatedAt,
			}
			repo.attendance.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error) {
				return record, nil
			}

			svc := newTestAttendanceService(repo)

			_, err := svc.Update(context.Background(), 1, &UpdateAttendanceRequest{IsPresent: true}, tt.actorID, tt.actorRole)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if !record.IsPresent {
				t.Error("Update() did not flip the presence flag")
			}
		})
	}
}

func TestAttendanceService_Update_NotSubjectFaculty(t *testing.T) {
	repo := newMockRepository()
	otherFaculty := "faculty-2"
	repo.attendance.GetFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error) {
		return &models.Attendance{
			ID:        1,
			Subject:   &models.Subject{ID: 1, FacultyID: &otherFaculty},
			UpdatedAt: time.Now(),
		}, nil
	}

	svc := newTestAttendanceService(repo)

	_, err := svc.Update(context.Background(), 1, &UpdateAttendanceRequest{IsPresent: true}, "faculty-1", models.RoleFaculty)

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Update() error = %v, want PermissionError", err)
	}
}

func TestAttendanceService_ExportCSV(t *testing.T) {
	repo := newMockRepository()
	repo.attendance.ListForExportFn = func(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
		return []*models.Attendance{exportFixture(t)}, nil
	}

	svc := newTestAttendanceService(repo)

	data, err := svc.ExportCSV(context.Background(), repositories.AttendanceFilters{})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("export has %d rows, want header plus one record", len(rows))
	}

	wantHeader := "Date,Roll No,Student Name,Course,Subject,Status,Last Updated"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}
	want := []string{"2025-06-02", "R001", "Asha Verma", "CS Year 1", "CS101", "Present", "2025-06-02 10:30"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("row[%d] = %q, want %q", i, rows[1][i], cell)
		}
	}
}

func TestAttendanceService_ExportXLSX(t *testing.T) {
	repo := newMockRepository()
	repo.attendance.ListForExportFn = func(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
		record := exportFixture(t)
		record.IsPresent = false
		return []*models.Attendance{record}, nil
	}

	svc := newTestAttendanceService(repo)

	data, err := svc.ExportXLSX(context.Background(), repositories.AttendanceFilters{})
	if err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("failed to read Attendance sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("sheet has %d rows, want header plus one record", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][5] != "Status" {
		t.Errorf("header row = %v, want export header", rows[0])
	}
	if rows[1][5] != "Absent" {
		t.Errorf("status cell = %q, want Absent", rows[1][5])
	}
}

func TestAttendanceService_RecordResponse_Editable(t *testing.T) {
	repo := newMockRepository()
	fresh := exportFixture(t)
	fresh.UpdatedAt = time.Now()
	stale := exportFixture(t)
	stale.ID = 2
	stale.UpdatedAt = time.Now().Add(-2 * validator.AttendanceEditWindow)

	repo.attendance.ListFn = func(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
		return []*models.Attendance{fresh, stale}, 2, nil
	}

	svc := newTestAttendanceService(repo)

	resp, err := svc.List(context.Background(), repositories.AttendanceFilters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(resp.Records))
	}
	if !resp.Records[0].Editable {
		t.Error("fresh record should still be editable")
	}
	if resp.Records[1].Editable {
		t.Error("stale record should no longer be editable")
	}
}
