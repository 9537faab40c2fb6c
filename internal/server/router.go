package server

import (
	"net/http"

	"agrovision/internal/handlers"
	"agrovision/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	CORSOrigins      []string
	Log              *zap.Logger
	FarmerHandler    *handlers.FarmerHandler
	DiagnosisHandler *handlers.DiagnosisHandler
	WeatherHandler   *handlers.WeatherHandler
	AlertHandler     *handlers.AlertHandler
	StoreHandler     *handlers.StoreHandler
	VoiceHandler     *handlers.VoiceHandler
	// Publisher is nil when no event broker is configured.
	Publisher handlers.PublisherStatus
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	handlers.ConfigureValidator()

	router := gin.New()
	router.Use(Recovery(cfg.Log))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(RequestLogger(cfg.Log))

	handlers.RegisterHealthRoute(router, cfg.Publisher)
	cfg.FarmerHandler.RegisterRoutes(router)
	cfg.DiagnosisHandler.RegisterRoutes(router)
	cfg.WeatherHandler.RegisterRoutes(router)
	cfg.AlertHandler.RegisterRoutes(router)
	cfg.StoreHandler.RegisterRoutes(router)
	cfg.VoiceHandler.RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("Route not found"))
	})

	return router
}

// corsConfig treats an empty list or a "*" entry as "any origin".
func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
	}

	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
			break
		}
	}

	if allowAll {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
