package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
	"github.com/opencampus/academics-service/internal/validator"
)

type AnnouncementHandler struct {
	BaseHandler
	announcementService services.AnnouncementService
	validator           *validator.Validator
}

func NewAnnouncementHandler(
	announcementService services.AnnouncementService,
	validator *validator.Validator,
	logger utils.Logger,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		BaseHandler:         NewBaseHandler(logger),
		announcementService: announcementService,
		validator:           validator,
	}
}

// PostAnnouncement publishes an announcement authored by the caller
// @Summary Post announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param announcement body services.CreateAnnouncementRequest true "Title and content"
// @Success 201 {object} services.AnnouncementResponse
// @Failure 400 {object} ErrorResponse
// @Router /announcements [post]
func (h *AnnouncementHandler) PostAnnouncement(c *gin.Context) {
	var req services.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	posterID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
		return
	}

	h.LogRequest(c, "Posting announcement", "title", req.Title)

	announcement, err := h.announcementService.Post(c.Request.Context(), &req, posterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// ListAnnouncements lists announcements, newest first
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Param limit query int false "Maximum number of announcements" default(20)
// @Success 200 {array} services.AnnouncementResponse
// @Router /announcements [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 20)

	announcements, err := h.announcementService.List(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcements)
}

// DeleteAnnouncement removes an announcement; admins or the original poster
// @Summary Delete announcement
// @Tags announcements
// @Param id path uint true "Announcement ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
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

	h.LogRequest(c, "Deleting announcement", "announcement_id", id)

	if err := h.announcementService.Delete(c.Request.Context(), id, actorID, actorRole); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
