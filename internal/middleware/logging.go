// Package middleware holds the Gin middleware wrapping the out-of-scope HTTP
// surface: request IDs, structured access logs, and panic recovery. None of
// this is part of the core per spec.md §1, but the core still needs a host
// process, and that process logs the way the rest of the stack does.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"minute-empire-backend/internal/logger"
)

// RequestID attaches a request ID to the context and response header,
// generating one with uuid when the caller didn't supply X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// ZapLogger logs each HTTP request via zap, with severity keyed to status.
func ZapLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		requestID, _ := c.Get("request_id")

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("duration", duration),
			zap.Int("size", c.Writer.Size()),
		}

		if requestID != nil {
			fields = append(fields, zap.String("request_id", requestID.(string)))
		}
		if raw != "" {
			fields = append(fields, zap.String("query", raw))
		}

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			for _, err := range c.Errors {
				logger.Get().Error("http request error", append(fields, zap.Error(err))...)
			}
		case status >= 500:
			logger.Get().Error("http request", fields...)
		case status >= 400:
			logger.Get().Warn("http request", fields...)
		default:
			logger.Get().Info("http request", fields...)
		}
	}
}

// ZapRecovery recovers from panics in downstream handlers, logs them, and
// responds 500 instead of crashing the process — a single bad command
// submission must never take down the scheduler loop's host process.
func ZapRecovery() gin.HandlerFunc {
	return gin.RecoveryWithWriter(gin.DefaultWriter, func(c *gin.Context, err any) {
		requestID, _ := c.Get("request_id")

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Any("error", err),
		}
		if requestID != nil {
			fields = append(fields, zap.String("request_id", requestID.(string)))
		}

		logger.Get().Error("panic recovered", fields...)
		c.AbortWithStatus(500)
	})
}
