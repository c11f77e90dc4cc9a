package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// GetSubjectAttendance returns per-student percentages for one subject
// @Summary Subject attendance report
// @Tags reports
// @Produce json
// @Param subject_id path uint true "Subject ID"
// @Success 200 {object} services.SubjectAttendanceReport
// @Failure 404 {object} ErrorResponse
// @Router /reports/subjects/{subject_id}/attendance [get]
func (h *ReportHandler) GetSubjectAttendance(c *gin.Context) {
	subjectID := h.ParseIDParam(c, "subject_id")
	if subjectID == 0 {
		return
	}

	h.LogRequest(c, "Building subject attendance report", "subject_id", subjectID)

	report, err := h.reportService.GetSubjectAttendance(c.Request.Context(), subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetLowAttendanceReport lists students below the attendance threshold
// @Summary Low attendance report
// @Tags reports
// @Produce json
// @Success 200 {object} services.LowAttendanceReport
// @Router /reports/low-attendance [get]
func (h *ReportHandler) GetLowAttendanceReport(c *gin.Context) {
	h.LogRequest(c, "Building low attendance report")

	report, err := h.reportService.GetLowAttendanceReport(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetConsolidatedReport returns the students-by-subjects percentage matrix
// for one class
// @Summary Consolidated class report
// @Tags reports
// @Produce json
// @Param class_id path uint true "Class ID"
// @Success 200 {object} services.ConsolidatedReport
// @Router /reports/classes/{class_id}/consolidated [get]
func (h *ReportHandler) GetConsolidatedReport(c *gin.Context) {
	classID := h.ParseIDParam(c, "class_id")
	if classID == 0 {
		return
	}

	h.LogRequest(c, "Building consolidated report", "class_id", classID)

	report, err := h.reportService.GetConsolidatedReport(c.Request.Context(), classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetLectureHistory lists conducted lectures with their headcounts
// @Summary Lecture history
// @Tags reports
// @Produce json
// @Param class_id query uint false "Class filter"
// @Param subject_id query uint false "Subject filter"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} services.LectureHistoryResponse
// @Router /reports/lecture-history [get]
func (h *ReportHandler) GetLectureHistory(c *gin.Context) {
	filters, err := h.parseLectureHistoryFilters(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	history, err := h.reportService.GetLectureHistory(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *ReportHandler) parseLectureHistoryFilters(c *gin.Context) (repositories.LectureHistoryFilters, error) {
	page := h.ParseIntQuery(c, "page", 1)
	size := h.ParseIntQuery(c, "size", 50)

	filters := repositories.LectureHistoryFilters{
		ClassID:   h.ParseUintQueryPtr(c, "class_id"),
		SubjectID: h.ParseUintQueryPtr(c, "subject_id"),
		Limit:     size,
		Offset:    (page - 1) * size,
	}

	for param, target := range map[string]**time.Time{
		"date_from": &filters.DateFrom,
		"date_to":   &filters.DateTo,
	} {
		if value := c.Query(param); value != "" {
			parsed, err := time.Parse("2006-01-02", value)
			if err != nil {
				return filters, fmt.Errorf("%s must be YYYY-MM-DD", param)
			}
			*target = &parsed
		}
	}

	return filters, nil
}
