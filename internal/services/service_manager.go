package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/cache"
	"github.com/opencampus/academics-service/internal/events"
	"github.com/opencampus/academics-service/internal/mailer"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Logging configuration
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Service-specific configurations
	Attendance ServiceConfig
	Report     ServiceConfig
	Leave      ServiceConfig
	Import     ServiceConfig

	// Global settings
	DefaultTimeout time.Duration
}

type ServiceConfig struct {
	Enabled      bool
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Dependencies carries the external collaborators the services need beyond
// the repository: the event bus, the mailer and the redis cache. Every field
// has a working in-process default, so tests and local runs can pass the
// zero value.
type Dependencies struct {
	Publisher events.EventPublisher
	Mailer    mailer.Mailer
	Cache     *cache.CacheManager
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig
	deps      Dependencies

	// Service instances
	userService         UserService
	academicService     AcademicService
	attendanceService   AttendanceService
	reportService       ReportService
	importService       ImportService
	chatbotService      ChatbotService
	leaveService        LeaveService
	announcementService AnnouncementService
	notificationService NotificationService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig, deps Dependencies) ServiceManager {
	if deps.Publisher == nil {
		deps.Publisher = events.NewMockEventPublisher(logger)
	}
	if deps.Mailer == nil {
		deps.Mailer = mailer.NewConsoleMailer(logger)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheManager(nil)
	}

	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
		deps:      deps,
	}
}

// NewDefaultServiceManager creates a service manager with default
// configuration and in-process dependency defaults.
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	return NewServiceManager(db, repo, logger, validator, DefaultServiceManagerConfig(), Dependencies{})
}

// DefaultServiceManagerConfig returns the configuration used when the caller
// does not tune the services individually.
func DefaultServiceManagerConfig() ServiceManagerConfig {
	return ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,

		Attendance: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		},
		Report: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		},
		Leave: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},
		Import: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},

		DefaultTimeout: 30 * time.Second,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.initializeServices()

	if err := sm.validateServicesHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices() {
	sm.notificationService = NewNotificationService(sm.repo, sm.deps.Publisher, sm.deps.Mailer, sm.logger)
	sm.logger.Info("Notification service initialized")

	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("User service initialized")

	sm.academicService = NewAcademicService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Academic service initialized")

	if sm.config.Attendance.Enabled {
		sm.attendanceService = NewAttendanceService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Cache)
		sm.logger.Info("Attendance service initialized")
	}

	if sm.config.Report.Enabled {
		sm.reportService = NewReportService(sm.repo, sm.db, sm.logger, sm.deps.Cache)
		sm.logger.Info("Report service initialized")
	}

	if sm.config.Import.Enabled {
		sm.importService = NewImportService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.logger.Info("Import service initialized")
	}

	sm.chatbotService = NewChatbotService(sm.repo, sm.db, sm.logger, sm.reportService)
	sm.logger.Info("Chatbot service initialized")

	if sm.config.Leave.Enabled {
		sm.leaveService = NewLeaveService(sm.repo, sm.db, sm.logger, sm.validator, sm.notificationService)
		sm.logger.Info("Leave service initialized")
	}

	sm.announcementService = NewAnnouncementService(sm.repo, sm.db, sm.logger, sm.validator, sm.notificationService)
	sm.logger.Info("Announcement service initialized")
}

func (sm *serviceManager) validateServicesHealth(ctx context.Context) error {
	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping failed: %w", err)
	}
	return nil
}

// Service getters
func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.userService != nil {
		return sm.userService
	}

	panic("user service not initialized")
}

func (sm *serviceManager) Academic() AcademicService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.academicService != nil {
		return sm.academicService
	}

	panic("academic service not initialized")
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Attendance.Enabled && sm.attendanceService != nil {
		return sm.attendanceService
	}

	panic("attendance service not enabled or not initialized")
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Report.Enabled && sm.reportService != nil {
		return sm.reportService
	}

	panic("report service not enabled or not initialized")
}

func (sm *serviceManager) Import() ImportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Import.Enabled && sm.importService != nil {
		return sm.importService
	}

	panic("import service not enabled or not initialized")
}

func (sm *serviceManager) Chatbot() ChatbotService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.chatbotService != nil {
		return sm.chatbotService
	}

	panic("chatbot service not initialized")
}

func (sm *serviceManager) Leave() LeaveService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Leave.Enabled && sm.leaveService != nil {
		return sm.leaveService
	}

	panic("leave service not enabled or not initialized")
}

func (sm *serviceManager) Announcement() AnnouncementService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.announcementService != nil {
		return sm.announcementService
	}

	panic("announcement service not initialized")
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.notificationService != nil {
		return sm.notificationService
	}

	panic("notification service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	if sm.deps.Cache != nil {
		if err := sm.deps.Cache.HealthCheck(ctx); err != nil {
			sm.logger.Warn("Cache health check failed", "error", err)
		}
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.deps.Publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repositories", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// ===== UTILITY METHODS =====

// GetConfig returns the service manager configuration
func (sm *serviceManager) GetConfig() ServiceManagerConfig {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.config
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}

// IsShutdown returns whether the service manager has been shut down
func (sm *serviceManager) IsShutdown() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.shutdown
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}

// ===== CONFIGURATION VALIDATION =====

// Validate checks the service manager configuration for obvious mistakes.
func (config *ServiceManagerConfig) Validate() error {
	var errors []string

	if config.DefaultTimeout <= 0 {
		errors = append(errors, "default timeout must be positive")
	}

	if err := config.Attendance.validate("attendance"); err != nil {
		errors = append(errors, err.Error())
	}

	if err := config.Report.validate("report"); err != nil {
		errors = append(errors, err.Error())
	}

	if err := config.Leave.validate("leave"); err != nil {
		errors = append(errors, err.Error())
	}

	if err := config.Import.validate("import"); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func (sc *ServiceConfig) validate(serviceName string) error {
	if sc.CacheTTL < 0 {
		return fmt.Errorf("%s: cache TTL cannot be negative", serviceName)
	}
	return nil
}
