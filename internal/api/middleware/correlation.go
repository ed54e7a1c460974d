package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/mediagrab/internal/utils"
)

// probePaths are hit by orchestrators every few seconds and only logged at debug.
var probePaths = map[string]bool{
	"/health": true,
	"/ready":  true,
	"/live":   true,
}

// CorrelationIDMiddleware tags every request with a correlation id (taken
// from X-Correlation-ID when the client sends one) and a fresh request id,
// and logs the request with its outcome.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		correlationID := strings.TrimSpace(c.GetHeader("X-Correlation-ID"))
		if correlationID == "" {
			correlationID = utils.GenerateCorrelationID()
		}
		requestID := utils.GenerateRequestID()

		c.Set("correlation_id", correlationID)
		c.Set("request_id", requestID)
		c.Header("X-Correlation-ID", correlationID)
		c.Header("X-Request-ID", requestID)

		ctx := utils.WithRequestID(utils.WithCorrelationID(c.Request.Context(), correlationID), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		fields := utils.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"ip":       c.ClientIP(),
			"status":   c.Writer.Status(),
			"bytes":    c.Writer.Size(),
			"duration": time.Since(start).String(),
		}

		switch {
		case probePaths[c.Request.URL.Path]:
			utils.LogDebug(ctx, "Request completed", fields)
		case c.Writer.Status() >= http.StatusInternalServerError:
			utils.LogWarn(ctx, "Request completed with server error", fields)
		default:
			utils.LogInfo(ctx, "Request completed", fields)
		}
	}
}
