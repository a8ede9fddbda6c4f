package middleware

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/pkg/logger"
	"github.com/d60-Lab/shelf/pkg/response"
)

const HeaderRequestID = "X-Request-ID"

// RequestID 透传或生成请求 ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Logger 访问日志
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		}
		if id, ok := CurrentUserID(c); ok {
			fields = append(fields, zap.Int64("user_id", id))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// Recovery turns panics into a logged, reported 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString("request_id")),
					zap.Stack("stack"),
				)
				if hub := sentrygin.GetHubFromContext(c); hub != nil {
					hub.RecoverWithContext(c.Request.Context(), r)
				} else if sentry.CurrentHub().Client() != nil {
					sentry.CurrentHub().Recover(r)
				}
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError,
						response.Response{Code: http.StatusInternalServerError, Message: "internal server error"})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
