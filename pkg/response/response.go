package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/pkg/apperr"
	"github.com/d60-Lab/shelf/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 200 + data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, msg)
}

func Unauthorized(c *gin.Context, msg string) {
	abort(c, http.StatusUnauthorized, msg)
}

func NotFound(c *gin.Context, msg string) {
	abort(c, http.StatusNotFound, msg)
}

// InternalError logs the cause and hides it from the client.
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else if sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}
	abort(c, http.StatusInternalServerError, "internal server error")
}

// Error 按 apperr.Kind 映射状态码
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindInternal:
		InternalError(c, err)
	case apperr.KindUpstreamUnavailable:
		logger.Warn("upstream unavailable", zap.Error(err), zap.String("path", c.FullPath()))
		abort(c, kind.HTTPStatus(), apperr.MessageOf(err))
	default:
		abort(c, kind.HTTPStatus(), apperr.MessageOf(err))
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: msg})
}
