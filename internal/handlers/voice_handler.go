package handlers

import (
	"errors"
	"net/http"
	"strings"

	"agrovision/internal/models"
	"agrovision/internal/services"
	"agrovision/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VoiceHandler struct {
	voiceService services.IVoiceService
	log          *zap.Logger
}

func NewVoiceHandler(voiceService services.IVoiceService, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		voiceService: voiceService,
		log:          log,
	}
}

func (h *VoiceHandler) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")
	apiGroup.POST("/voice/process", h.ProcessVoice)
	apiGroup.POST("/advice", h.GetAdvice)
}

// ProcessVoice echoes the transcript back untouched as processedText.
func (h *VoiceHandler) ProcessVoice(c *gin.Context) {
	var req models.VoiceRequest
	if err := decodeJSON(c, &req); err != nil && !errors.Is(err, errMissingBody) {
		respondValidationError(c, "Invalid voice request", err)
		return
	}
	req.Language = strings.TrimSpace(req.Language)

	resp, err := h.voiceService.ProcessVoiceQuery(c.Request.Context(), req.Text, req.Language)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("No text provided for processing"))
			return
		}
		respondInternalError(c, h.log, "Failed to process voice input", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAdvice accepts an empty body; every field has a default.
func (h *VoiceHandler) GetAdvice(c *gin.Context) {
	var req models.AdviceRequest
	if err := bindTrimmedJSON(c, &req); err != nil && !errors.Is(err, errMissingBody) {
		respondValidationError(c, "Invalid advice request", err)
		return
	}

	resp, err := h.voiceService.GenerateFarmingAdvice(c.Request.Context(), req.CropType, req.Issue, req.Language)
	if err != nil {
		respondInternalError(c, h.log, "Failed to generate farming advice", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
