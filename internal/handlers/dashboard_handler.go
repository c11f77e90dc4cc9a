package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewDashboardHandler(reportService services.ReportService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetAdminDashboard returns system-wide counters and today's sessions
// @Summary Admin dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.AdminDashboardResponse
// @Failure 401 {object} ErrorResponse
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	h.LogRequest(c, "Getting admin dashboard")

	stats, err := h.reportService.GetAdminDashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetFacultyDashboard returns the caller's subjects and today's schedule
// @Summary Faculty dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.FacultyDashboardResponse
// @Failure 401 {object} ErrorResponse
// @Router /dashboard/faculty [get]
func (h *DashboardHandler) GetFacultyDashboard(c *gin.Context) {
	facultyID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	h.LogRequest(c, "Getting faculty dashboard", "faculty_id", facultyID)

	stats, err := h.reportService.GetFacultyDashboard(c.Request.Context(), facultyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStudentDashboard returns the caller's per-subject attendance summary
// @Summary Student dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.StudentDashboardResponse
// @Failure 401 {object} ErrorResponse
// @Router /dashboard/student [get]
func (h *DashboardHandler) GetStudentDashboard(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	h.LogRequest(c, "Getting student dashboard", "user_id", userID)

	stats, err := h.reportService.GetStudentDashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
