package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/academics-service/internal/services"
	"github.com/opencampus/academics-service/internal/utils"
)

const emptyQuestionPrompt = "Please ask a question, for example \"how many students are there?\""

type ChatbotHandler struct {
	BaseHandler
	chatbotService services.ChatbotService
}

func NewChatbotHandler(chatbotService services.ChatbotService, logger utils.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		BaseHandler:    NewBaseHandler(logger),
		chatbotService: chatbotService,
	}
}

// Ask answers an admin question about the data
// @Summary Ask the chatbot
// @Tags chatbot
// @Accept json
// @Produce json
// @Param question body services.ChatRequest true "Question text"
// @Success 200 {object} services.ChatResponse
// @Failure 400 {object} ErrorResponse
// @Router /chatbot [post]
func (h *ChatbotHandler) Ask(c *gin.Context) {
	var req services.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusOK, services.ChatResponse{Reply: emptyQuestionPrompt})
		return
	}

	h.LogRequest(c, "Answering chatbot question")

	reply, err := h.chatbotService.Ask(c.Request.Context(), req.Message)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}
