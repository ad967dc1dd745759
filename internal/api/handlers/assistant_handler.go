package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/service"
)

type AssistantHandler struct {
	service *service.AssistantService
}

func NewAssistantHandler(service *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

// Chat answers a free-text question about one dataset's ledger.
func (h *AssistantHandler) Chat(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
		return
	}

	var body struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	answer, err := h.service.Ask(c.Request.Context(), id, body.Question)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAssistantDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		case errors.Is(err, domain.ErrDatasetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
		case domain.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Int64("dataset_id", id).Msg("assistant request failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "assistant request failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
