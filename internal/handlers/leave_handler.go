package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
	"github.com/opencampus/academics-service/internal/validator"
)

type LeaveHandler struct {
	BaseHandler
	leaveService services.LeaveService
	validator    *validator.Validator
}

func NewLeaveHandler(
	leaveService services.LeaveService,
	validator *validator.Validator,
	logger utils.Logger,
) *LeaveHandler {
	return &LeaveHandler{
		BaseHandler:  NewBaseHandler(logger),
		leaveService: leaveService,
		validator:    validator,
	}
}

// ApplyForLeave creates a PENDING leave request for the caller
// @Summary Apply for leave
// @Tags leaves
// @Accept json
// @Produce json
// @Param leave body services.CreateLeaveRequest true "Leave dates and reason"
// @Success 201 {object} services.LeaveResponse
// @Failure 400 {object} ErrorResponse
// @Router /leaves [post]
func (h *LeaveHandler) ApplyForLeave(c *gin.Context) {
	var req services.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	h.LogRequest(c, "Applying for leave", "user_id", userID)

	leave, err := h.leaveService.Apply(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, leave)
}

// DecideLeave approves or rejects a PENDING request. Admin only.
// @Summary Decide leave request
// @Tags leaves
// @Accept json
// @Produce json
// @Param id path uint true "Leave request ID"
// @Param decision body services.DecideLeaveRequest true "APPROVED or REJECTED"
// @Success 200 {object} services.LeaveResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /leaves/{id}/status [put]
func (h *LeaveHandler) DecideLeave(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	adminID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	h.LogRequest(c, "Deciding leave request", "leave_id", id, "status", req.Status)

	leave, err := h.leaveService.Decide(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, leave)
}

// GetLeave retrieves one request; applicants see their own, admins see all
// @Summary Get leave request
// @Tags leaves
// @Produce json
// @Param id path uint true "Leave request ID"
// @Success 200 {object} services.LeaveResponse
// @Failure 404 {object} ErrorResponse
// @Router /leaves/{id} [get]
func (h *LeaveHandler) GetLeave(c *gin.Context) {
	id := h.ParseIDParam(c, "id")
	if id == 0 {
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

	leave, err := h.leaveService.GetByID(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, leave)
}

// ListLeaves lists all requests, newest first. Admin only.
// @Summary List leave requests
// @Tags leaves
// @Produce json
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} services.LeaveListResponse
// @Router /leaves [get]
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	filters := h.parseLeaveFilters(c)

	leaves, err := h.leaveService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaves)
}

// ListMyLeaves lists the caller's own requests, newest first
// @Summary List own leave requests
// @Tags leaves
// @Produce json
// @Success 200 {object} services.LeaveListResponse
// @Router /leaves/mine [get]
func (h *LeaveHandler) ListMyLeaves(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	filters := h.parseLeaveFilters(c)

	leaves, err := h.leaveService.ListMine(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaves)
}

func (h *LeaveHandler) parseLeaveFilters(c *gin.Context) repositories.LeaveFilters {
	page := h.ParseIntQuery(c, "page", 1)
	size := h.ParseIntQuery(c, "size", 20)

	filters := repositories.LeaveFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.LeaveStatus(statusStr)
		filters.Status = &status
	}

	return filters
}
