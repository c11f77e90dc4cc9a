package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
	"github.com/opencampus/academics-service/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
	validator         *validator.Validator
}

func NewAttendanceHandler(
	attendanceService services.AttendanceService,
	validator *validator.Validator,
	logger utils.Logger,
) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
		validator:         validator,
	}
}

// MarkAttendance records attendance for a subject on one date, one flag per
// student. Existing records for the same key are overwritten.
// @Summary Mark attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Param attendance body services.MarkAttendanceRequest true "Attendance sheet"
// @Success 200 {object} services.MarkAttendanceResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /attendance [post]
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req services.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	facultyID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	h.LogRequest(c, "Marking attendance", "subject_id", req.SubjectID, "date", req.Date, "entries", len(req.Entries))

	result, err := h.attendanceService.Mark(c.Request.Context(), &req, facultyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateAttendance edits a single record's present flag. Faculty are bound to
// the 24-hour window; admins are not.
// @Summary Update attendance record
// @Tags attendance
// @Accept json
// @Produce json
// @Param id path uint true "Attendance record ID"
// @Param attendance body services.UpdateAttendanceRequest true "New flag"
// @Success 200 {object} services.AttendanceRecordResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}
	actorRole, err := GetUserRoleFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	h.LogRequest(c, "Updating attendance record", "attendance_id", id)

	record, err := h.attendanceService.Update(c.Request.Context(), id, &req, actorID, actorRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListAttendance lists records with filters and pagination
// @Summary List attendance records
// @Tags attendance
// @Produce json
// @Param class_id query uint false "Class filter"
// @Param subject_id query uint false "Subject filter"
// @Param student_id query uint false "Student profile filter"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Param q query string false "Student name or roll number"
// @Success 200 {object} services.AttendanceListResponse
// @Router /attendance [get]
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	filters, err := h.parseAttendanceFilters(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	records, err := h.attendanceService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// ExportAttendanceCSV streams the filtered records as a CSV download
// @Summary Export attendance as CSV
// @Tags attendance
// @Produce text/csv
// @Success 200 {file} file
// @Router /attendance/export [get]
func (h *AttendanceHandler) ExportAttendanceCSV(c *gin.Context) {
	filters, err := h.parseAttendanceFilters(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	h.LogRequest(c, "Exporting attendance CSV")

	data, err := h.attendanceService.ExportCSV(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportAttendanceXLSX streams the filtered records as an Excel download
// @Summary Export attendance as XLSX
// @Tags attendance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /attendance/export/xlsx [get]
func (h *AttendanceHandler) ExportAttendanceXLSX(c *gin.Context) {
	filters, err := h.parseAttendanceFilters(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	h.LogRequest(c, "Exporting attendance XLSX")

	data, err := h.attendanceService.ExportXLSX(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *AttendanceHandler) parseAttendanceFilters(c *gin.Context) (repositories.AttendanceFilters, error) {
	page := h.ParseIntQuery(c, "page", 1)
	size := h.ParseIntQuery(c, "size", 50)

	filters := repositories.AttendanceFilters{
		ClassID:   h.ParseUintQueryPtr(c, "class_id"),
		SubjectID: h.ParseUintQueryPtr(c, "subject_id"),
		StudentID: h.ParseUintQueryPtr(c, "student_id"),
		Query:     c.Query("q"),
		Limit:     size,
		Offset:    (page - 1) * size,
	}

	if facultyID := c.Query("faculty_id"); facultyID != "" {
		filters.FacultyID = &facultyID
	}

	// Faculty see only their own subjects' records.
	if role, err := GetUserRoleFromContext(c); err == nil && role == models.RoleFaculty {
		if userID, err := GetUserIDFromContext(c); err == nil {
			filters.FacultyID = &userID
		}
	}

	// The range bounds also answer to date_from/date_to for older clients.
	dateParams := []struct {
		names  []string
		target **time.Time
	}{
		{names: []string{"date"}, target: &filters.Date},
		{names: []string{"start_date", "date_from"}, target: &filters.DateFrom},
		{names: []string{"end_date", "date_to"}, target: &filters.DateTo},
	}
	for _, p := range dateParams {
		for _, name := range p.names {
			value := c.Query(name)
			if value == "" {
				continue
			}
			parsed, err := time.Parse("2006-01-02", value)
			if err != nil {
				return filters, fmt.Errorf("%s must be YYYY-MM-DD", name)
			}
			*p.target = &parsed
			break
		}
	}

	return filters, nil
}
