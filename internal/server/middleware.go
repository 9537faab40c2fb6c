package server

import (
	"net/http"
	"strings"
	"time"

	"agrovision/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every /api request once it has been served.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil || !strings.HasPrefix(c.Request.URL.Path, "/api") {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("panic while serving request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", recovered))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.CreateErrorResponse("Internal Server Error"))
	})
}
