// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"ponder-art-go/pkg/log"
	"ponder-art-go/pkg/token"
)

// RequestIDKey 是请求 ID 在 Gin 上下文中的键名。
const RequestIDKey = "requestId"

// RequestLogger 是一个 Gin 中间件，用于为每个请求生成请求 ID 并记录访问日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 记录请求开始时间
		startTime := time.Now()

		// 为本次请求生成一个请求 ID，供处理器与日志引用
		requestID := token.GenerateRandomString(8)
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-Id", requestID)

		// 处理请求
		c.Next()

		// 计算延迟
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path

		// 记录完整的请求信息
		log.Infow("HTTP Request Log",
			"requestId", requestID,
			"statusCode", statusCode,
			"latency", latency.String(),
			"clientIP", clientIP,
			"method", method,
			"path", path,
			"query", c.Request.URL.RawQuery,
		)
	}
}

// RequestID 返回当前请求的请求 ID；中间件未生效时返回空串。
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
