package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

// testLogger discards everything so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// ===== MOCK REPOSITORY =====

// mockRepository implements repositories.Repository with per-method function
// fields. Methods without a configured function return not-found for getters
// and empty results for lists, so each test only wires what it needs.
type mockRepository struct {
	user         *mockUserRepo
	student      *mockStudentRepo
	department   *mockDepartmentRepo
	class        *mockClassRepo
	subject      *mockSubjectRepo
	timeSlot     *mockTimeSlotRepo
	timetable    *mockTimetableRepo
	attendance   *mockAttendanceRepo
	leave        *mockLeaveRepo
	announcement *mockAnnouncementRepo
	dashboard    *mockDashboardRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:         &mockUserRepo{},
		student:      &mockStudentRepo{},
		department:   &mockDepartmentRepo{},
		class:        &mockClassRepo{},
		subject:      &mockSubjectRepo{},
		timeSlot:     &mockTimeSlotRepo{},
		timetable:    &mockTimetableRepo{},
		attendance:   &mockAttendanceRepo{},
		leave:        &mockLeaveRepo{},
		announcement: &mockAnnouncementRepo{},
		dashboard:    &mockDashboardRepo{},
	}
}

func (m *mockRepository) User() repositories.UserRepository             { return m.user }
func (m *mockRepository) Student() repositories.StudentRepository       { return m.student }
func (m *mockRepository) Department() repositories.DepartmentRepository { return m.department }
func (m *mockRepository) Class() repositories.ClassRepository           { return m.class }
func (m *mockRepository) Subject() repositories.SubjectRepository       { return m.subject }
func (m *mockRepository) TimeSlot() repositories.TimeSlotRepository     { return m.timeSlot }
func (m *mockRepository) Timetable() repositories.TimetableRepository   { return m.timetable }
func (m *mockRepository) Attendance() repositories.AttendanceRepository { return m.attendance }
func (m *mockRepository) Leave() repositories.LeaveRepository           { return m.leave }

func (m *mockRepository) Announcement() repositories.AnnouncementRepository {
	return m.announcement
}

func (m *mockRepository) Dashboard() repositories.DashboardRepository { return m.dashboard }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== USER =====

type mockUserRepo struct {
	CreateFn           func(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByIDFn          func(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByUsernameFn    func(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	UpdateFn           func(ctx context.Context, tx *gorm.DB, user *models.User) error
	DeleteFn           func(ctx context.Context, tx *gorm.DB, id string) error
	ListFn             func(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error)
	ExistsByUsernameFn func(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	HasRoleFn          func(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) (bool, error)
	CountByRoleFn      func(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, tx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	if m.ExistsByUsernameFn != nil {
		return m.ExistsByUsernameFn(ctx, tx, username)
	}
	return false, nil
}

func (m *mockUserRepo) HasRole(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) (bool, error) {
	if m.HasRoleFn != nil {
		return m.HasRoleFn(ctx, tx, id, role)
	}
	return false, nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error) {
	if m.CountByRoleFn != nil {
		return m.CountByRoleFn(ctx, tx, role)
	}
	return 0, nil
}

// ===== STUDENT =====

type mockStudentRepo struct {
	CreateFn         func(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	GetByIDFn        func(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProfile, error)
	GetByUserIDFn    func(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error)
	GetByRollNoFn    func(ctx context.Context, tx *gorm.DB, rollNo string) (*models.StudentProfile, error)
	UpdateFn         func(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	DeleteFn         func(ctx context.Context, tx *gorm.DB, id uint) error
	ListByClassFn    func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error)
	ExistsByRollNoFn func(ctx context.Context, tx *gorm.DB, rollNo string) (bool, error)
	CountFn          func(ctx context.Context, tx *gorm.DB) (int64, error)
}

func (m *mockStudentRepo) Create(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, profile)
	}
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProfile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, tx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByRollNo(ctx context.Context, tx *gorm.DB, rollNo string) (*models.StudentProfile, error) {
	if m.GetByRollNoFn != nil {
		return m.GetByRollNoFn(ctx, tx, rollNo)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, profile)
	}
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockStudentRepo) ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.StudentProfile, error) {
	if m.ListByClassFn != nil {
		return m.ListByClassFn(ctx, tx, classID)
	}
	return nil, nil
}

func (m *mockStudentRepo) ExistsByRollNo(ctx context.Context, tx *gorm.DB, rollNo string) (bool, error) {
	if m.ExistsByRollNoFn != nil {
		return m.ExistsByRollNoFn(ctx, tx, rollNo)
	}
	return false, nil
}

func (m *mockStudentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, tx)
	}
	return 0, nil
}

// ===== DEPARTMENT =====

type mockDepartmentRepo struct {
	CreateFn func(ctx context.Context, tx *gorm.DB, department *models.Department) error
	GetFn    func(ctx context.Context, tx *gorm.DB, id uint) (*models.Department, error)
	UpdateFn func(ctx context.Context, tx *gorm.DB, department *models.Department) error
	DeleteFn func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn   func(ctx context.Context, tx *gorm.DB) ([]*models.Department, error)
	CountFn  func(ctx context.Context, tx *gorm.DB) (int64, error)
}

func (m *mockDepartmentRepo) Create(ctx context.Context, tx *gorm.DB, department *models.Department) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, department)
	}
	return nil
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Department, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) Update(ctx context.Context, tx *gorm.DB, department *models.Department) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, department)
	}
	return nil
}

func (m *mockDepartmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockDepartmentRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Department, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockDepartmentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, tx)
	}
	return 0, nil
}

// ===== CLASS =====

type mockClassRepo struct {
	CreateFn    func(ctx context.Context, tx *gorm.DB, class *models.Class) error
	GetFn       func(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error)
	GetByNameFn func(ctx context.Context, tx *gorm.DB, name string) (*models.Class, error)
	UpdateFn    func(ctx context.Context, tx *gorm.DB, class *models.Class) error
	DeleteFn    func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn      func(ctx context.Context, tx *gorm.DB) ([]*models.Class, error)
	CountFn     func(ctx context.Context, tx *gorm.DB) (int64, error)
}

func (m *mockClassRepo) Create(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, class)
	}
	return nil
}

func (m *mockClassRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Class, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, tx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) Update(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, class)
	}
	return nil
}

func (m *mockClassRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockClassRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Class, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockClassRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, tx)
	}
	return 0, nil
}

// ===== SUBJECT =====

type mockSubjectRepo struct {
	CreateFn        func(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	GetFn           func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error)
	UpdateFn        func(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	DeleteFn        func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn          func(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)
	ListByClassFn   func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Subject, error)
	ListByFacultyFn func(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Subject, error)
	CountFn         func(ctx context.Context, tx *gorm.DB) (int64, error)
}

func (m *mockSubjectRepo) Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, subject)
	}
	return nil
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) Update(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, subject)
	}
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockSubjectRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockSubjectRepo) ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Subject, error) {
	if m.ListByClassFn != nil {
		return m.ListByClassFn(ctx, tx, classID)
	}
	return nil, nil
}

func (m *mockSubjectRepo) ListByFaculty(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Subject, error) {
	if m.ListByFacultyFn != nil {
		return m.ListByFacultyFn(ctx, tx, facultyID)
	}
	return nil, nil
}

func (m *mockSubjectRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, tx)
	}
	return 0, nil
}

// ===== TIME SLOT =====

type mockTimeSlotRepo struct {
	CreateFn func(ctx context.Context, tx *gorm.DB, slot *models.TimeSlot) error
	GetFn    func(ctx context.Context, tx *gorm.DB, id uint) (*models.TimeSlot, error)
	DeleteFn func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn   func(ctx context.Context, tx *gorm.DB) ([]*models.TimeSlot, error)
}

func (m *mockTimeSlotRepo) Create(ctx context.Context, tx *gorm.DB, slot *models.TimeSlot) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, slot)
	}
	return nil
}

func (m *mockTimeSlotRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TimeSlot, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockTimeSlotRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.TimeSlot, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx)
	}
	return nil, nil
}

// ===== TIMETABLE =====

type mockTimetableRepo struct {
	CreateFn              func(ctx context.Context, tx *gorm.DB, entry *models.Timetable) error
	GetFn                 func(ctx context.Context, tx *gorm.DB, id uint) (*models.Timetable, error)
	DeleteFn              func(ctx context.Context, tx *gorm.DB, id uint) error
	ListByClassFn         func(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Timetable, error)
	ListByFacultyFn       func(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Timetable, error)
	ListBySubjectAndDayFn func(ctx context.Context, tx *gorm.DB, subjectIDs []uint, dayOfWeek int) ([]*models.Timetable, error)
	ExistsSlotFn          func(ctx context.Context, tx *gorm.DB, subjectID uint, dayOfWeek int, timeSlotID uint) (bool, error)
}

func (m *mockTimetableRepo) Create(ctx context.Context, tx *gorm.DB, entry *models.Timetable) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, entry)
	}
	return nil
}

func (m *mockTimetableRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Timetable, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockTimetableRepo) ListByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]*models.Timetable, error) {
	if m.ListByClassFn != nil {
		return m.ListByClassFn(ctx, tx, classID)
	}
	return nil, nil
}

func (m *mockTimetableRepo) ListByFaculty(ctx context.Context, tx *gorm.DB, facultyID string) ([]*models.Timetable, error) {
	if m.ListByFacultyFn != nil {
		return m.ListByFacultyFn(ctx, tx, facultyID)
	}
	return nil, nil
}

func (m *mockTimetableRepo) ListBySubjectAndDay(ctx context.Context, tx *gorm.DB, subjectIDs []uint, dayOfWeek int) ([]*models.Timetable, error) {
	if m.ListBySubjectAndDayFn != nil {
		return m.ListBySubjectAndDayFn(ctx, tx, subjectIDs, dayOfWeek)
	}
	return nil, nil
}

func (m *mockTimetableRepo) ExistsSlot(ctx context.Context, tx *gorm.DB, subjectID uint, dayOfWeek int, timeSlotID uint) (bool, error) {
	if m.ExistsSlotFn != nil {
		return m.ExistsSlotFn(ctx, tx, subjectID, dayOfWeek, timeSlotID)
	}
	return false, nil
}

// ===== ATTENDANCE =====

type mockAttendanceRepo struct {
	UpsertFn                   func(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error
	GetFn                      func(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error)
	UpdateFn                   func(ctx context.Context, tx *gorm.DB, record *models.Attendance) error
	ListFn                     func(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error)
	ListForExportFn            func(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, error)
	GetLecturesConductedFn     func(ctx context.Context, tx *gorm.DB, subjectIDs []uint) ([]repositories.SubjectLectureCount, error)
	GetPresentCountsByClassFn  func(ctx context.Context, tx *gorm.DB, classID uint) ([]repositories.StudentSubjectPresence, error)
	GetStudentPresenceTotalsFn func(ctx context.Context, tx *gorm.DB) ([]repositories.StudentPresenceTotals, error)
	GetStudentSubjectTotalsFn  func(ctx context.Context, tx *gorm.DB, studentID uint) ([]repositories.StudentSubjectPresence, []repositories.SubjectLectureCount, error)
	GetLectureSessionsFn       func(ctx context.Context, tx *gorm.DB, filters repositories.LectureHistoryFilters) ([]repositories.LectureSessionData, int64, error)
	GetAveragePresenceFn       func(ctx context.Context, tx *gorm.DB) (float64, error)
	CountSessionsOnFn          func(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error)
}

func (m *mockAttendanceRepo) Upsert(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, tx, records)
	}
	return nil
}

func (m *mockAttendanceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(ctx context.Context, tx *gorm.DB, record *models.Attendance) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, record)
	}
	return nil
}

func (m *mockAttendanceRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockAttendanceRepo) ListForExport(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
	if m.ListForExportFn != nil {
		return m.ListForExportFn(ctx, tx, filters)
	}
	return nil, nil
}

func (m *mockAttendanceRepo) GetLecturesConducted(ctx context.Context, tx *gorm.DB, subjectIDs []uint) ([]repositories.SubjectLectureCount, error) {
	if m.GetLecturesConductedFn != nil {
		return m.GetLecturesConductedFn(ctx, tx, subjectIDs)
	}
	return nil, nil
}

func (m *mockAttendanceRepo) GetPresentCountsByClass(ctx context.Context, tx *gorm.DB, classID uint) ([]repositories.StudentSubjectPresence, error) {
	if m.GetPresentCountsByClassFn != nil {
		return m.GetPresentCountsByClassFn(ctx, tx, classID)
	}
	return nil, nil
}

func (m *mockAttendanceRepo) GetStudentPresenceTotals(ctx context.Context, tx *gorm.DB) ([]repositories.StudentPresenceTotals, error) {
	if m.GetStudentPresenceTotalsFn != nil {
		return m.GetStudentPresenceTotalsFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockAttendanceRepo) GetStudentSubjectTotals(ctx context.Context, tx *gorm.DB, studentID uint) ([]repositories.StudentSubjectPresence, []repositories.SubjectLectureCount, error) {
	if m.GetStudentSubjectTotalsFn != nil {
		return m.GetStudentSubjectTotalsFn(ctx, tx, studentID)
	}
	return nil, nil, nil
}

func (m *mockAttendanceRepo) GetLectureSessions(ctx context.Context, tx *gorm.DB, filters repositories.LectureHistoryFilters) ([]repositories.LectureSessionData, int64, error) {
	if m.GetLectureSessionsFn != nil {
		return m.GetLectureSessionsFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockAttendanceRepo) GetAveragePresence(ctx context.Context, tx *gorm.DB) (float64, error) {
	if m.GetAveragePresenceFn != nil {
		return m.GetAveragePresenceFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockAttendanceRepo) CountSessionsOn(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error) {
	if m.CountSessionsOnFn != nil {
		return m.CountSessionsOnFn(ctx, tx, date)
	}
	return 0, nil
}

// ===== LEAVE =====

type mockLeaveRepo struct {
	CreateFn        func(ctx context.Context, tx *gorm.DB, leave *models.LeaveRequest) error
	GetFn           func(ctx context.Context, tx *gorm.DB, id uint) (*models.LeaveRequest, error)
	UpdateStatusFn  func(ctx context.Context, tx *gorm.DB, id uint, status models.LeaveStatus) error
	ListFn          func(ctx context.Context, tx *gorm.DB, filters repositories.LeaveFilters) ([]*models.LeaveRequest, int64, error)
	CountByStatusFn func(ctx context.Context, tx *gorm.DB, status models.LeaveStatus) (int64, error)
}

func (m *mockLeaveRepo) Create(ctx context.Context, tx *gorm.DB, leave *models.LeaveRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, leave)
	}
	return nil
}

func (m *mockLeaveRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LeaveRequest, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.LeaveStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, tx, id, status)
	}
	return nil
}

func (m *mockLeaveRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.LeaveFilters) ([]*models.LeaveRequest, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockLeaveRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status models.LeaveStatus) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, tx, status)
	}
	return 0, nil
}

// ===== ANNOUNCEMENT =====

type mockAnnouncementRepo struct {
	CreateFn func(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error
	GetFn    func(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error)
	DeleteFn func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn   func(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Announcement, error)
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, announcement)
	}
	return nil
}

func (m *mockAnnouncementRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockAnnouncementRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Announcement, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, limit)
	}
	return nil, nil
}

// ===== DASHBOARD =====

type mockDashboardRepo struct {
	TotalStudentsFn     func(ctx context.Context, tx *gorm.DB) (int64, error)
	TotalFacultyFn      func(ctx context.Context, tx *gorm.DB) (int64, error)
	TotalClassesFn      func(ctx context.Context, tx *gorm.DB) (int64, error)
	TotalSubjectsFn     func(ctx context.Context, tx *gorm.DB) (int64, error)
	TotalDepartmentsFn  func(ctx context.Context, tx *gorm.DB) (int64, error)
	PendingLeaveCountFn func(ctx context.Context, tx *gorm.DB) (int64, error)
}

func (m *mockDashboardRepo) GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.TotalStudentsFn != nil {
		return m.TotalStudentsFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockDashboardRepo) GetTotalFaculty(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.TotalFacultyFn != nil {
		return m.TotalFacultyFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockDashboardRepo) GetTotalClasses(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.TotalClassesFn != nil {
		return m.TotalClassesFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockDashboardRepo) GetTotalSubjects(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.TotalSubjectsFn != nil {
		return m.TotalSubjectsFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockDashboardRepo) GetTotalDepartments(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.TotalDepartmentsFn != nil {
		return m.TotalDepartmentsFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockDashboardRepo) GetPendingLeaveCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	if m.PendingLeaveCountFn != nil {
		return m.PendingLeaveCountFn(ctx, tx)
	}
	return 0, nil
}

// ===== MOCK NOTIFICATIONS =====

// mockNotificationService records calls and signals each one on Calls so
// tests can wait for async notification goroutines.
type mockNotificationService struct {
	mu    sync.Mutex
	calls []string
	Calls chan string
}

func newMockNotificationService() *mockNotificationService {
	return &mockNotificationService{Calls: make(chan string, 8)}
}

func (m *mockNotificationService) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
	m.Calls <- name
}

func (m *mockNotificationService) NotifyLeaveRequested(ctx context.Context, leave *models.LeaveRequest, applicant *models.User) error {
	m.record("leave_requested")
	return nil
}

func (m *mockNotificationService) NotifyLeaveDecided(ctx context.Context, leave *models.LeaveRequest, applicant *models.User) error {
	m.record("leave_decided")
	return nil
}

func (m *mockNotificationService) NotifyAnnouncementPosted(ctx context.Context, announcement *models.Announcement) error {
	m.record("announcement_posted")
	return nil
}

// waitForCall blocks until the named notification fires or the deadline hits.
func (m *mockNotificationService) waitForCall(name string, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		select {
		case got := <-m.Calls:
			if got == name {
				return true
			}
		case <-deadline:
			return false
		}
	}
}
