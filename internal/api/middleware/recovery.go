package middleware

import (
	"fmt"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-admin/pkg/logger"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

// Recovery 捕获 panic，记录日志后返回 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, r any) {
		logger.Error("panic recovered",
			zap.Any("panic", r),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Stack("stack"),
		)
		response.InternalError(c, fmt.Errorf("panic: %v", r))
	})
}

// Sentry 上报 panic 后继续抛出，由 Recovery 写响应；未配置 DSN 时为空操作
func Sentry() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}
