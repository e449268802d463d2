package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/logger"
	"go.uber.org/zap"
)

// RequestLogger logs one structured line per request after it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", clientIdentifier(c)),
		}
		if correlationID := GetCorrelationID(c); correlationID != "" {
			fields = append(fields, zap.String("correlation_id", correlationID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("Request failed", fields...)
			return
		}
		logger.Info("Request completed", fields...)
	}
}
