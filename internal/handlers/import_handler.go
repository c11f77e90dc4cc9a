package handlers

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
)

type ImportHandler struct {
	BaseHandler
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService, logger utils.Logger) *ImportHandler {
	return &ImportHandler{
		BaseHandler:   NewBaseHandler(logger),
		importService: importService,
	}
}

// ImportStudents accepts a CSV upload of student accounts
// @Summary Bulk import students
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /imports/students [post]
func (h *ImportHandler) ImportStudents(c *gin.Context) {
	file, ok := h.openCSVUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing students from upload")

	result, err := h.importService.ImportStudents(c.Request.Context(), file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportFaculty accepts a CSV upload of faculty accounts
// @Summary Bulk import faculty
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /imports/faculty [post]
func (h *ImportHandler) ImportFaculty(c *gin.Context) {
	file, ok := h.openCSVUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing faculty from upload")

	result, err := h.importService.ImportFaculty(c.Request.Context(), file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// openCSVUpload validates the multipart upload before any parsing. A false
// return means the response has already been written.
func (h *ImportHandler) openCSVUpload(c *gin.Context) (multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "CSV file is required under the 'file' form field", err)
		return nil, false
	}

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" {
		h.RespondWithError(c, http.StatusBadRequest, "Only .csv files are accepted", nil)
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return nil, false
	}

	return file, true
}
