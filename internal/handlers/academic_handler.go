package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
	"github.com/opencampus/academics-service/internal/validator"
)

// AcademicHandler covers departments, classes, subjects, time slots and
// timetables.
type AcademicHandler struct {
	BaseHandler
	academicService services.AcademicService
	validator       *validator.Validator
}

func NewAcademicHandler(
	academicService services.AcademicService,
	validator *validator.Validator,
	logger utils.Logger,
) *AcademicHandler {
	return &AcademicHandler{
		BaseHandler:     NewBaseHandler(logger),
		academicService: academicService,
		validator:       validator,
	}
}

// ===== DEPARTMENTS =====

func (h *AcademicHandler) CreateDepartment(c *gin.Context) {
	var req services.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating department", "name", req.Name)

	department, err := h.academicService.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, department)
}

func (h *AcademicHandler) ListDepartments(c *gin.Context) {
	departments, err := h.academicService.ListDepartments(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, departments)
}

func (h *AcademicHandler) DeleteDepartment(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting department", "department_id", id)

	if err := h.academicService.DeleteDepartment(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== CLASSES =====

func (h *AcademicHandler) CreateClass(c *gin.Context) {
	var req services.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating class", "name", req.Name)

	class, err := h.academicService.CreateClass(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

func (h *AcademicHandler) GetClass(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	class, err := h.academicService.GetClass(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

func (h *AcademicHandler) ListClasses(c *gin.Context) {
	classes, err := h.academicService.ListClasses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

func (h *AcademicHandler) DeleteClass(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting class", "class_id", id)

	if err := h.academicService.DeleteClass(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== SUBJECTS =====

func (h *AcademicHandler) CreateSubject(c *gin.Context) {
	var req services.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating subject", "name", req.Name, "class_id", req.ClassID)

	subject, err := h.academicService.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

func (h *AcademicHandler) UpdateSubject(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Updating subject", "subject_id", id)

	subject, err := h.academicService.UpdateSubject(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// ListSubjects lists subjects, optionally scoped to one class
func (h *AcademicHandler) ListSubjects(c *gin.Context) {
	classID := h.ParseUintQueryPtr(c, "class_id")

	subjects, err := h.academicService.ListSubjects(c.Request.Context(), classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// ListMySubjects lists the authenticated faculty member's subjects
func (h *AcademicHandler) ListMySubjects(c *gin.Context) {
	facultyID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	subjects, err := h.academicService.ListSubjectsByFaculty(c.Request.Context(), facultyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

func (h *AcademicHandler) DeleteSubject(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting subject", "subject_id", id)

	if err := h.academicService.DeleteSubject(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== TIME SLOTS =====

func (h *AcademicHandler) CreateTimeSlot(c *gin.Context) {
	var req services.CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating time slot", "start", req.StartTime, "end", req.EndTime)

	slot, err := h.academicService.CreateTimeSlot(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

func (h *AcademicHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.academicService.ListTimeSlots(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

func (h *AcademicHandler) DeleteTimeSlot(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting time slot", "time_slot_id", id)

	if err := h.academicService.DeleteTimeSlot(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== TIMETABLES =====

func (h *AcademicHandler) CreateTimetableEntry(c *gin.Context) {
	var req services.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating timetable entry", "subject_id", req.SubjectID, "day", req.DayOfWeek)

	entry, err := h.academicService.CreateTimetableEntry(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *AcademicHandler) DeleteTimetableEntry(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting timetable entry", "timetable_id", id)

	if err := h.academicService.DeleteTimetableEntry(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetClassTimetable returns a class's weekly schedule
func (h *AcademicHandler) GetClassTimetable(c *gin.Context) {
	classID := h.ParseIDParam(c, "class_id")
	if classID == 0 {
		return
	}

	entries, err := h.academicService.GetClassTimetable(c.Request.Context(), classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetMyTimetable returns the authenticated faculty member's weekly schedule
func (h *AcademicHandler) GetMyTimetable(c *gin.Context) {
	facultyID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	entries, err := h.academicService.GetFacultyTimetable(c.Request.Context(), facultyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
