package handlers

import (
	"errors"
	"net/http"
	"strings"

	"agrovision/internal/repository"
	"agrovision/internal/services"
	"agrovision/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DiagnosisHandler struct {
	diagnosisService services.IDiagnosisService
	log              *zap.Logger
}

func NewDiagnosisHandler(diagnosisService services.IDiagnosisService, log *zap.Logger) *DiagnosisHandler {
	return &DiagnosisHandler{
		diagnosisService: diagnosisService,
		log:              log,
	}
}

func (h *DiagnosisHandler) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")
	apiGroup.POST("/diagnose", ImageUpload("image", MaxImageBytes), h.Diagnose)
	apiGroup.GET("/diagnoses/:farmerId", h.GetDiagnosesByFarmer)
	apiGroup.GET("/diagnosis/:id", h.GetDiagnosis)
}

func (h *DiagnosisHandler) Diagnose(c *gin.Context) {
	header, ok := uploadedImage(c)
	if !ok {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("No image provided"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondInternalError(c, h.log, "Failed to process crop diagnosis", err)
		return
	}
	defer file.Close()

	var farmerID *string
	if value := strings.TrimSpace(c.PostForm("farmerId")); value != "" {
		farmerID = &value
	}

	diagnosis, err := h.diagnosisService.Diagnose(c.Request.Context(), services.DiagnoseInput{
		FarmerID:    farmerID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Image:       file,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, utils.CreateValidationErrorResponse("Invalid diagnosis data",
				[]utils.ValidationError{{Field: "farmerId", Message: "does not match a known farmer"}}))
			return
		}
		respondInternalError(c, h.log, "Failed to process crop diagnosis", err)
		return
	}
	c.JSON(http.StatusOK, diagnosis)
}

func (h *DiagnosisHandler) GetDiagnosesByFarmer(c *gin.Context) {
	diagnoses, err := h.diagnosisService.GetDiagnosesByFarmer(c.Request.Context(), c.Param("farmerId"))
	if err != nil {
		respondInternalError(c, h.log, "Failed to get crop diagnoses", err)
		return
	}
	c.JSON(http.StatusOK, diagnoses)
}

func (h *DiagnosisHandler) GetDiagnosis(c *gin.Context) {
	diagnosis, err := h.diagnosisService.GetDiagnosis(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, h.log, "Failed to get crop diagnosis", err)
		return
	}
	if diagnosis == nil {
		respondNotFound(c, "Diagnosis not found")
		return
	}
	c.JSON(http.StatusOK, diagnosis)
}
