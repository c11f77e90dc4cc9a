package repositories

import "context"

// Repository aggregates every entity repository behind one interface.
type Repository interface {
	// User domain
	User() UserRepository
	Student() StudentRepository

	// Academic structure
	Department() DepartmentRepository
	Class() ClassRepository
	Subject() SubjectRepository
	TimeSlot() TimeSlotRepository
	Timetable() TimetableRepository

	// Attendance domain
	Attendance() AttendanceRepository

	// Leave workflow
	Leave() LeaveRepository

	// Announcements
	Announcement() AnnouncementRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
