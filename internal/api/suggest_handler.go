package api

import (
	"net/http"

	"github.com/geobase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SuggestHandler handles generative-text suggestion endpoints
type SuggestHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSuggestHandler creates a new SuggestHandler
func NewSuggestHandler(services *service.Services, log zerolog.Logger) *SuggestHandler {
	return &SuggestHandler{
		services: services,
		log:      log.With().Str("handler", "suggest").Logger(),
	}
}

type suggestRequest struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

// SuggestQuestions handles POST /suggest-questions
func (h *SuggestHandler) SuggestQuestions(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	suggestions, err := h.services.Suggest.SuggestQuestions(c.Request.Context(), req.Question, req.Category)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// SuggestAnswer handles POST /suggest-answer
func (h *SuggestHandler) SuggestAnswer(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer, err := h.services.Suggest.SuggestAnswer(c.Request.Context(), req.Question, req.Category)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
