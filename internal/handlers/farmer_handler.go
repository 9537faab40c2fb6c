package handlers

import (
	"net/http"

	"agrovision/internal/models"
	"agrovision/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FarmerHandler struct {
	farmerService services.IFarmerService
	log           *zap.Logger
}

func NewFarmerHandler(farmerService services.IFarmerService, log *zap.Logger) *FarmerHandler {
	return &FarmerHandler{
		farmerService: farmerService,
		log:           log,
	}
}

func (h *FarmerHandler) RegisterRoutes(router *gin.Engine) {
	farmerGroup := router.Group("/api/farmers")
	farmerGroup.GET("", h.GetCurrentFarmer)
	farmerGroup.POST("", h.CreateFarmer)
	farmerGroup.GET("/:id", h.GetFarmer)
	farmerGroup.PATCH("/:id", h.UpdateFarmer)
}

// GetCurrentFarmer answers with the dashboard's farmer or a JSON null.
func (h *FarmerHandler) GetCurrentFarmer(c *gin.Context) {
	farmer, err := h.farmerService.GetCurrentFarmer(c.Request.Context())
	if err != nil {
		respondInternalError(c, h.log, "Failed to get farmer data", err)
		return
	}
	c.JSON(http.StatusOK, farmer)
}

func (h *FarmerHandler) GetFarmer(c *gin.Context) {
	farmer, err := h.farmerService.GetFarmer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, h.log, "Failed to get farmer data", err)
		return
	}
	if farmer == nil {
		respondNotFound(c, "Farmer not found")
		return
	}
	c.JSON(http.StatusOK, farmer)
}

func (h *FarmerHandler) CreateFarmer(c *gin.Context) {
	var input models.CreateFarmerInput
	if err := bindTrimmedJSON(c, &input); err != nil {
		respondValidationError(c, "Invalid farmer data", err)
		return
	}

	farmer, err := h.farmerService.CreateFarmer(c.Request.Context(), input)
	if err != nil {
		respondInternalError(c, h.log, "Failed to create farmer", err)
		return
	}
	c.JSON(http.StatusCreated, farmer)
}

func (h *FarmerHandler) UpdateFarmer(c *gin.Context) {
	var input models.UpdateFarmerInput
	if err := bindTrimmedJSON(c, &input); err != nil {
		respondValidationError(c, "Invalid farmer data", err)
		return
	}

	farmer, err := h.farmerService.UpdateFarmer(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondInternalError(c, h.log, "Failed to update farmer", err)
		return
	}
	if farmer == nil {
		respondNotFound(c, "Farmer not found")
		return
	}
	c.JSON(http.StatusOK, farmer)
}
