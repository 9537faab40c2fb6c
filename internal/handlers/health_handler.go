package handlers

import (
	"net/http"

	"agrovision/internal/event"

	"github.com/gin-gonic/gin"
)

const healthyMessage = "AgroVision service is healthy"

// PublisherStatus reports delivery counters of the diagnosis event publisher.
type PublisherStatus interface {
	HealthCheck() event.PublisherHealthStatus
}

type HealthResponse struct {
	Message   string                      `json:"message"`
	Publisher event.PublisherHealthStatus `json:"publisher"`
}

// RegisterHealthRoute serves GET /checkhealth. Without a publisher the body is
// plain text; with one it is JSON carrying the publisher counters.
func RegisterHealthRoute(router *gin.Engine, publisher PublisherStatus) {
	router.GET("/checkhealth", func(c *gin.Context) {
		if publisher == nil {
			c.String(http.StatusOK, healthyMessage)
			return
		}
		c.JSON(http.StatusOK, HealthResponse{
			Message:   healthyMessage,
			Publisher: publisher.HealthCheck(),
		})
	})
}
