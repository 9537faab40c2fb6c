package handlers

import (
	"net/http"

	"agrovision/internal/models"
	"agrovision/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StoreHandler struct {
	storeService services.IAgriStoreService
	log          *zap.Logger
}

func NewStoreHandler(storeService services.IAgriStoreService, log *zap.Logger) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		log:          log,
	}
}

func (h *StoreHandler) RegisterRoutes(router *gin.Engine) {
	storeGroup := router.Group("/api/stores")
	storeGroup.GET("", h.GetStores)
	storeGroup.GET("/:location", h.GetStores)
	storeGroup.POST("", h.CreateStore)
}

func (h *StoreHandler) GetStores(c *gin.Context) {
	stores, err := h.storeService.GetStores(c.Request.Context(), c.Param("location"))
	if err != nil {
		respondInternalError(c, h.log, "Failed to get agricultural stores", err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (h *StoreHandler) CreateStore(c *gin.Context) {
	var input models.CreateAgriStoreInput
	if err := bindTrimmedJSON(c, &input); err != nil {
		respondValidationError(c, "Invalid agricultural store data", err)
		return
	}

	store, err := h.storeService.CreateStore(c.Request.Context(), input)
	if err != nil {
		respondInternalError(c, h.log, "Failed to create agricultural store", err)
		return
	}
	c.JSON(http.StatusCreated, store)
}
