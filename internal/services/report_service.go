package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/cache"
	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

// LowAttendanceThreshold is the percentage below which a student is flagged.
const LowAttendanceThreshold = 75.0

type reportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewReportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cacheManager *cache.CacheManager) ReportService {
	return &reportService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cacheManager,
	}
}

// ===== SUBJECT REPORT =====

func (s *reportService) GetSubjectAttendance(ctx context.Context, subjectID uint) (*SubjectAttendanceReport, error) {
	s.logger.Info("Building subject attendance report", "subject_id", subjectID)

	subject, err := s.repo.Subject().GetByID(ctx, nil, subjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	var report SubjectAttendanceReport
	cacheKey := fmt.Sprintf("class:%d:subject:%d", subject.ClassID, subjectID)
	err = s.cache.Report.CacheOrExecute(ctx, cacheKey, &report, cache.ReportCacheConfig.TTL, func() (interface{}, error) {
		return s.buildSubjectReport(ctx, subject)
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *reportService) buildSubjectReport(ctx context.Context, subject *models.Subject) (*SubjectAttendanceReport, error) {
	conducted, err := s.lecturesConducted(ctx, []uint{subject.ID})
	if err != nil {
		return nil, err
	}
	lectures := conducted[subject.ID]

	students, err := s.repo.Student().ListByClass(ctx, nil, subject.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to load class roster: %w", err)
	}

	presence, err := s.repo.Attendance().GetPresentCountsByClass(ctx, nil, subject.ClassID)
	if err != nil {
		return nil, err
	}
	presentBy := make(map[uint]int64, len(presence))
	for _, p := range presence {
		if p.SubjectID == subject.ID {
			presentBy[p.StudentID] = p.Present
		}
	}

	report := &SubjectAttendanceReport{
		SubjectID:         subject.ID,
		SubjectName:       subject.Name,
		ClassID:           subject.ClassID,
		LecturesConducted: lectures,
		Rows:              make([]SubjectAttendanceRow, 0, len(students)),
	}
	if subject.Class != nil {
		report.ClassName = subject.Class.Name
	}

	var pctSum float64
	for _, student := range students {
		row := SubjectAttendanceRow{
			StudentID: student.ID,
			RollNo:    student.RollNo,
			Present:   presentBy[student.ID],
			Conducted: lectures,
		}
		if student.User != nil {
			row.StudentName = student.User.FullName()
		}
		row.Percentage = percentage(row.Present, lectures)
		pctSum += row.Percentage
		report.Rows = append(report.Rows, row)
	}

	if len(report.Rows) > 0 {
		report.AveragePercentage = roundFloat(pctSum/float64(len(report.Rows)), 2)
	}

	return report, nil
}

// ===== LOW ATTENDANCE =====

func (s *reportService) GetLowAttendanceReport(ctx context.Context) (*LowAttendanceReport, error) {
	s.logger.Info("Building low attendance report")

	var report LowAttendanceReport
	err := s.cache.Report.CacheOrExecute(ctx, "low-attendance", &report, cache.ReportCacheConfig.TTL, func() (interface{}, error) {
		return s.buildLowAttendanceReport(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *reportService) buildLowAttendanceReport(ctx context.Context) (*LowAttendanceReport, error) {
	totals, err := s.repo.Attendance().GetStudentPresenceTotals(ctx, nil)
	if err != nil {
		return nil, err
	}

	report := &LowAttendanceReport{
		Threshold: LowAttendanceThreshold,
		Students:  []LowAttendanceRow{},
	}

	for _, t := range totals {
		// Students with no marked lectures are unreported, not flagged.
		if t.Total == 0 {
			continue
		}
		pct := percentage(t.Present, t.Total)
		if pct >= LowAttendanceThreshold {
			continue
		}
		name := t.FirstName
		if t.LastName != "" {
			name += " " + t.LastName
		}
		report.Students = append(report.Students, LowAttendanceRow{
			StudentID:   t.StudentID,
			StudentName: name,
			RollNo:      t.RollNo,
			Percentage:  pct,
		})
	}

	sort.Slice(report.Students, func(i, j int) bool {
		return report.Students[i].Percentage < report.Students[j].Percentage
	})

	return report, nil
}

// ===== CONSOLIDATED REPORT =====

func (s *reportService) GetConsolidatedReport(ctx context.Context, classID uint) (*ConsolidatedReport, error) {
	s.logger.Info("Building consolidated report", "class_id", classID)

	var report ConsolidatedReport
	cacheKey := fmt.Sprintf("class:%d:consolidated", classID)
	err := s.cache.Report.CacheOrExecute(ctx, cacheKey, &report, cache.ReportCacheConfig.TTL, func() (interface{}, error) {
		return s.buildConsolidatedReport(ctx, classID)
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *reportService) buildConsolidatedReport(ctx context.Context, classID uint) (*ConsolidatedReport, error) {
	class, err := s.repo.Class().GetByID(ctx, nil, classID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	subjects, err := s.repo.Subject().ListByClass(ctx, nil, classID)
	if err != nil {
		return nil, err
	}
	subjectIDs := make([]uint, len(subjects))
	for i, subject := range subjects {
		subjectIDs[i] = subject.ID
	}

	conducted, err := s.lecturesConducted(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}

	presence, err := s.repo.Attendance().GetPresentCountsByClass(ctx, nil, classID)
	if err != nil {
		return nil, err
	}
	presentBy := make(map[uint]map[uint]int64)
	for _, p := range presence {
		if presentBy[p.StudentID] == nil {
			presentBy[p.StudentID] = make(map[uint]int64)
		}
		presentBy[p.StudentID][p.SubjectID] = p.Present
	}

	students, err := s.repo.Student().ListByClass(ctx, nil, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to load class roster: %w", err)
	}

	report := &ConsolidatedReport{
		ClassID:   classID,
		ClassName: class.Name,
		Subjects:  make([]SubjectRef, len(subjects)),
		Rows:      make([]ConsolidatedRow, 0, len(students)),
	}
	for i, subject := range subjects {
		report.Subjects[i] = SubjectRef{SubjectID: subject.ID, SubjectName: subject.Name}
	}

	var overallSum float64
	for _, student := range students {
		row := ConsolidatedRow{
			StudentID: student.ID,
			RollNo:    student.RollNo,
			Cells:     make(map[uint]ConsolidatedCell, len(subjects)),
		}
		if student.User != nil {
			row.StudentName = student.User.FullName()
		}

		for _, subject := range subjects {
			present := presentBy[student.ID][subject.ID]
			lectures := conducted[subject.ID]
			row.Cells[subject.ID] = ConsolidatedCell{
				Attended:   present,
				Conducted:  lectures,
				Percentage: percentage(present, lectures),
			}
			row.TotalAttended += present
			row.TotalConducted += lectures
		}
		row.Overall = percentage(row.TotalAttended, row.TotalConducted)
		overallSum += row.Overall

		if row.Overall >= LowAttendanceThreshold {
			report.AboveThreshold++
		} else {
			report.BelowThreshold++
		}

		report.Rows = append(report.Rows, row)
	}

	if len(report.Rows) > 0 {
		report.ClassAverage = roundFloat(overallSum/float64(len(report.Rows)), 2)
	}

	return report, nil
}

// ===== LECTURE HISTORY =====

func (s *reportService) GetLectureHistory(ctx context.Context, filters repositories.LectureHistoryFilters) (*LectureHistoryResponse, error) {
	sessions, total, err := s.repo.Attendance().GetLectureSessions(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	entries := make([]LectureHistoryEntry, len(sessions))
	for i, session := range sessions {
		entries[i] = LectureHistoryEntry{
			Date:        session.Date.Format("2006-01-02"),
			TimeSlotID:  session.TimeSlotID,
			SubjectID:   session.SubjectID,
			SubjectName: session.SubjectName,
			ClassName:   session.ClassName,
			Present:     session.Present,
			Total:       session.Total,
			Percentage:  percentage(session.Present, session.Total),
		}
	}

	return &LectureHistoryResponse{
		Entries: entries,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    filters.Limit,
	}, nil
}

// ===== DASHBOARDS =====

func (s *reportService) GetAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error) {
	s.logger.Info("Building admin dashboard")

	var resp AdminDashboardResponse
	err := s.cache.Stats.CacheOrExecute(ctx, "dashboard:admin", &resp, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.buildAdminDashboard(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *reportService) buildAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error) {
	dash := s.repo.Dashboard()

	totalStudents, err := dash.GetTotalStudents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total students: %w", err)
	}
	totalFaculty, err := dash.GetTotalFaculty(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total faculty: %w", err)
	}
	totalClasses, err := dash.GetTotalClasses(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total classes: %w", err)
	}
	totalSubjects, err := dash.GetTotalSubjects(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total subjects: %w", err)
	}
	totalDepartments, err := dash.GetTotalDepartments(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total departments: %w", err)
	}
	pendingLeaves, err := dash.GetPendingLeaveCount(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending leave count: %w", err)
	}
	averagePresence, err := s.repo.Attendance().GetAveragePresence(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get average attendance: %w", err)
	}
	sessionsToday, err := s.repo.Attendance().CountSessionsOn(ctx, nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's sessions: %w", err)
	}

	return &AdminDashboardResponse{
		TotalStudents:     totalStudents,
		TotalFaculty:      totalFaculty,
		TotalClasses:      totalClasses,
		TotalSubjects:     totalSubjects,
		TotalDepartments:  totalDepartments,
		PendingLeaves:     pendingLeaves,
		AverageAttendance: roundFloat(averagePresence*100, 2),
		SessionsToday:     sessionsToday,
	}, nil
}

func (s *reportService) GetFacultyDashboard(ctx context.Context, facultyID string) (*FacultyDashboardResponse, error) {
	s.logger.Info("Building faculty dashboard", "faculty_id", facultyID)

	subjects, err := s.repo.Subject().ListByFaculty(ctx, nil, facultyID)
	if err != nil {
		return nil, err
	}

	resp := &FacultyDashboardResponse{
		SubjectCount:   len(subjects),
		Subjects:       make([]SubjectRef, len(subjects)),
		TodayTimetable: []TimetableEntryResponse{},
	}
	subjectIDs := make([]uint, len(subjects))
	for i, subject := range subjects {
		resp.Subjects[i] = SubjectRef{SubjectID: subject.ID, SubjectName: subject.Name}
		subjectIDs[i] = subject.ID
	}

	entries, err := s.repo.Timetable().ListBySubjectAndDay(ctx, nil, subjectIDs, isoWeekday(time.Now()))
	if err != nil {
		return nil, err
	}
	resp.TodayTimetable = toTimetableResponses(entries)

	return resp, nil
}

func (s *reportService) GetStudentDashboard(ctx context.Context, userID string) (*StudentDashboardResponse, error) {
	s.logger.Info("Building student dashboard", "user_id", userID)

	profile, err := s.repo.Student().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	subjects, err := s.repo.Subject().ListByClass(ctx, nil, profile.ClassID)
	if err != nil {
		return nil, err
	}
	subjectNames := make(map[uint]string, len(subjects))
	for _, subject := range subjects {
		subjectNames[subject.ID] = subject.Name
	}

	presence, lectures, err := s.repo.Attendance().GetStudentSubjectTotals(ctx, nil, profile.ID)
	if err != nil {
		return nil, err
	}
	conductedBy := make(map[uint]int64, len(lectures))
	for _, l := range lectures {
		conductedBy[l.SubjectID] = l.Lectures
	}

	resp := &StudentDashboardResponse{
		RollNo:   profile.RollNo,
		Subjects: make([]StudentSubjectSummary, 0, len(presence)),
	}
	if profile.Class != nil {
		resp.ClassName = profile.Class.Name
	}

	var presentTotal, conductedTotal int64
	for _, p := range presence {
		conducted := conductedBy[p.SubjectID]
		resp.Subjects = append(resp.Subjects, StudentSubjectSummary{
			SubjectID:   p.SubjectID,
			SubjectName: subjectNames[p.SubjectID],
			Present:     p.Present,
			Conducted:   conducted,
			Percentage:  percentage(p.Present, conducted),
		})
		presentTotal += p.Present
		conductedTotal += conducted
	}

	sort.Slice(resp.Subjects, func(i, j int) bool {
		return resp.Subjects[i].SubjectName < resp.Subjects[j].SubjectName
	})

	resp.Overall = percentage(presentTotal, conductedTotal)
	resp.LowAttendance = conductedTotal > 0 && resp.Overall < LowAttendanceThreshold

	return resp, nil
}

// ===== HELPERS =====

func (s *reportService) lecturesConducted(ctx context.Context, subjectIDs []uint) (map[uint]int64, error) {
	counts, err := s.repo.Attendance().GetLecturesConducted(ctx, nil, subjectIDs)
	if err != nil {
		return nil, err
	}

	conducted := make(map[uint]int64, len(counts))
	for _, c := range counts {
		conducted[c.SubjectID] = c.Lectures
	}
	return conducted, nil
}

// percentage returns present/conducted as a percentage rounded to two
// decimals. Zero conducted yields zero, never a division error.
func percentage(present, conducted int64) float64 {
	if conducted <= 0 {
		return 0
	}
	return roundFloat(float64(present)/float64(conducted)*100, 2)
}

func roundFloat(val float64, precision int) float64 {
	ratio := 1.0
	for i := 0; i < precision; i++ {
		ratio *= 10
	}
	return float64(int(val*ratio+0.5)) / ratio
}

// isoWeekday maps Go's Sunday-first weekday to the 1=Monday..7=Sunday
// convention timetables use.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
