package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/config"
	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
	"github.com/opencampus/academics-service/internal/validator"
)

type HandlerManager struct {
	userHandler         *UserHandler
	academicHandler     *AcademicHandler
	attendanceHandler   *AttendanceHandler
	reportHandler       *ReportHandler
	dashboardHandler    *DashboardHandler
	importHandler       *ImportHandler
	leaveHandler        *LeaveHandler
	announcementHandler *AnnouncementHandler
	chatbotHandler      *ChatbotHandler
	authMiddleware      *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		userHandler:         NewUserHandler(serviceManager.User(), validator, logger),
		academicHandler:     NewAcademicHandler(serviceManager.Academic(), validator, logger),
		attendanceHandler:   NewAttendanceHandler(serviceManager.Attendance(), validator, logger),
		reportHandler:       NewReportHandler(serviceManager.Report(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Report(), logger),
		importHandler:       NewImportHandler(serviceManager.Import(), logger),
		leaveHandler:        NewLeaveHandler(serviceManager.Leave(), validator, logger),
		announcementHandler: NewAnnouncementHandler(serviceManager.Announcement(), validator, logger),
		chatbotHandler:      NewChatbotHandler(serviceManager.Chatbot(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	adminOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)
	adminOrHOD := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleHOD)
	facultyUp := hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleHOD, models.RoleAdmin)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// User management - Admins and HODs
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetCurrentUser)
			users.POST("", adminOrHOD, hm.userHandler.CreateUser)
			users.GET("", adminOrHOD, hm.userHandler.ListUsers)
			users.GET("/:id", adminOrHOD, hm.userHandler.GetUser)
			users.PUT("/:id", adminOrHOD, hm.userHandler.UpdateUser)
			users.DELETE("/:id", adminOnly, hm.userHandler.DeleteUser)
		}

		// CSV imports - Admins and HODs
		imports := v1.Group("/imports", adminOrHOD)
		{
			imports.POST("/students", hm.importHandler.ImportStudents)
			imports.POST("/faculty", hm.importHandler.ImportFaculty)
		}

		// Academic structure
		departments := v1.Group("/departments")
		{
			departments.POST("", adminOrHOD, hm.academicHandler.CreateDepartment)
			departments.GET("", hm.academicHandler.ListDepartments)
			departments.DELETE("/:id", adminOnly, hm.academicHandler.DeleteDepartment)
		}

		classes := v1.Group("/classes")
		{
			classes.POST("", adminOrHOD, hm.academicHandler.CreateClass)
			classes.GET("", hm.academicHandler.ListClasses)
			classes.GET("/:id", hm.academicHandler.GetClass)
			classes.DELETE("/:id", adminOnly, hm.academicHandler.DeleteClass)
			classes.GET("/:class_id/timetable", hm.academicHandler.GetClassTimetable)
			classes.GET("/:class_id/consolidated-report", adminOrHOD, hm.reportHandler.GetConsolidatedReport)
		}

		subjects := v1.Group("/subjects")
		{
			subjects.POST("", adminOrHOD, hm.academicHandler.CreateSubject)
			subjects.GET("", hm.academicHandler.ListSubjects)
			subjects.GET("/mine", facultyUp, hm.academicHandler.ListMySubjects)
			subjects.PUT("/:id", adminOrHOD, hm.academicHandler.UpdateSubject)
			subjects.DELETE("/:id", adminOnly, hm.academicHandler.DeleteSubject)
			subjects.GET("/:subject_id/attendance-report", facultyUp, hm.reportHandler.GetSubjectAttendance)
		}

		timeSlots := v1.Group("/time-slots")
		{
			timeSlots.POST("", adminOrHOD, hm.academicHandler.CreateTimeSlot)
			timeSlots.GET("", hm.academicHandler.ListTimeSlots)
			timeSlots.DELETE("/:id", adminOnly, hm.academicHandler.DeleteTimeSlot)
		}

		timetables := v1.Group("/timetables")
		{
			timetables.POST("", adminOrHOD, hm.academicHandler.CreateTimetableEntry)
			timetables.DELETE("/:id", adminOrHOD, hm.academicHandler.DeleteTimetableEntry)
			timetables.GET("/mine", facultyUp, hm.academicHandler.GetMyTimetable)
		}

		// Attendance - marking by faculty, listing and edits by faculty up
		attendance := v1.Group("/attendance")
		{
			attendance.POST("", facultyUp, hm.attendanceHandler.MarkAttendance)
			attendance.PUT("/:id", facultyUp, hm.attendanceHandler.UpdateAttendance)
			attendance.GET("", facultyUp, hm.attendanceHandler.ListAttendance)
			attendance.GET("/export", adminOrHOD, hm.attendanceHandler.ExportAttendanceCSV)
			attendance.GET("/export/xlsx", adminOrHOD, hm.attendanceHandler.ExportAttendanceXLSX)
		}

		// Reports - Admins and HODs
		reports := v1.Group("/reports", adminOrHOD)
		{
			reports.GET("/low-attendance", hm.reportHandler.GetLowAttendanceReport)
			reports.GET("/lecture-history", hm.reportHandler.GetLectureHistory)
		}

		// Dashboards per role
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/admin", adminOrHOD, hm.dashboardHandler.GetAdminDashboard)
			dashboard.GET("/faculty", facultyUp, hm.dashboardHandler.GetFacultyDashboard)
			dashboard.GET("/student", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.dashboardHandler.GetStudentDashboard)
		}

		// Leave workflow - any authenticated user applies, admins decide
		leaves := v1.Group("/leaves")
		{
			leaves.POST("", hm.leaveHandler.ApplyForLeave)
			leaves.GET("/mine", hm.leaveHandler.ListMyLeaves)
			leaves.GET("", adminOnly, hm.leaveHandler.ListLeaves)
			leaves.GET("/:id", hm.leaveHandler.GetLeave)
			leaves.PUT("/:id/status", adminOnly, hm.leaveHandler.DecideLeave)
		}

		// Announcements - everyone reads, admins write
		announcements := v1.Group("/announcements")
		{
			announcements.GET("", hm.announcementHandler.ListAnnouncements)
			announcements.POST("", adminOnly, hm.announcementHandler.PostAnnouncement)
			announcements.DELETE("/:id", adminOnly, hm.announcementHandler.DeleteAnnouncement)
		}

		// Chatbot - Admins and HODs
		v1.POST("/chatbot", adminOrHOD, hm.chatbotHandler.Ask)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "academics-service",
		})
	})
}
