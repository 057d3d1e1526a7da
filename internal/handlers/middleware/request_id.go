package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates or mints an X-Request-ID, puts it on the request
// context and writes one access log line per request.
func RequestID(l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
			c.Request.Header.Set(RequestIDHeader, reqID)
		}
		c.Header(RequestIDHeader, reqID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), reqID))

		start := time.Now()
		c.Next()

		l.Info().
			Ctx(c.Request.Context()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration_ms", time.Since(start)).
			Msg("request handled")
	}
}
