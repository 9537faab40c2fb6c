package handlers

import (
	"net/http"

	"agrovision/internal/models"
	"agrovision/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AlertHandler struct {
	alertService services.IAlertService
	log          *zap.Logger
}

func NewAlertHandler(alertService services.IAlertService, log *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
		log:          log,
	}
}

func (h *AlertHandler) RegisterRoutes(router *gin.Engine) {
	alertGroup := router.Group("/api/alerts")
	alertGroup.GET("", h.GetAlerts)
	alertGroup.GET("/:location", h.GetAlerts)
	alertGroup.POST("", h.CreateAlert)
}

// GetAlerts lists active alerts, filtered by the optional location segment.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.alertService.GetActiveAlerts(c.Request.Context(), c.Param("location"))
	if err != nil {
		respondInternalError(c, h.log, "Failed to get disease alerts", err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) CreateAlert(c *gin.Context) {
	var input models.CreateDiseaseAlertInput
	if err := bindTrimmedJSON(c, &input); err != nil {
		respondValidationError(c, "Invalid disease alert data", err)
		return
	}

	alert, err := h.alertService.CreateAlert(c.Request.Context(), input)
	if err != nil {
		respondInternalError(c, h.log, "Failed to create disease alert", err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}
