package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fincheck/internal/logger"
)

const (
	requestIDKey = "requestID"

	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
)

// RequestLogging returns a Gin middleware that tags each request with an id
// and logs method, route, status, latency and caller. A well-formed
// X-Request-ID sent by the client is reused.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		log := logger.Get()
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Errorw("request", fields...)
		case status >= 400:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
