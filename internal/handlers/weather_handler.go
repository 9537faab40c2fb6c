package handlers

import (
	"net/http"

	"agrovision/internal/models"
	"agrovision/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	weatherService services.IWeatherService
	log            *zap.Logger
}

func NewWeatherHandler(weatherService services.IWeatherService, log *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		log:            log,
	}
}

func (h *WeatherHandler) RegisterRoutes(router *gin.Engine) {
	weatherGroup := router.Group("/api/weather")
	weatherGroup.GET("/:location", h.GetWeather)
	weatherGroup.PUT("/:location", h.UpdateWeather)
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	weather, err := h.weatherService.GetWeather(c.Request.Context(), c.Param("location"))
	if err != nil {
		respondInternalError(c, h.log, "Failed to get weather data", err)
		return
	}
	c.JSON(http.StatusOK, weather)
}

func (h *WeatherHandler) UpdateWeather(c *gin.Context) {
	var input models.WeatherInput
	if err := bindTrimmedJSON(c, &input); err != nil {
		respondValidationError(c, "Invalid weather data", err)
		return
	}
	input.Location = c.Param("location")

	weather, err := h.weatherService.UpdateWeather(c.Request.Context(), input)
	if err != nil {
		respondInternalError(c, h.log, "Failed to update weather data", err)
		return
	}
	c.JSON(http.StatusOK, weather)
}
