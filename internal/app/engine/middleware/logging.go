/**
 * 中间件:日志相关中间件
 * @author: sun977
 * @date: 2026.08.25
 * @description: 定义日志中间件
 * @func:
 *   - GinLoggingMiddleware Gin日志中间件[同时把客户端IP/请求ID存储到Gin上下文和标准上下文,供后续使用]
 */
package middleware

import (
	"context"
	"fmt"
	"time"

	"neotask/internal/pkg/logger"
	"neotask/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinLoggingMiddleware Gin日志中间件
// 记录所有HTTP请求的访问日志和错误日志
// 使用方式: router.Use(middlewareManager.GinLoggingMiddleware())
func (m *MiddlewareManager) GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 提取并格式化客户端IP
		clientIP := utils.GetClientIP(c)
		requestID := utils.GetRequestIDFromGinContext(c)

		// 存储到Gin上下文
		c.Set(string(utils.ContextKeyClientIP), clientIP)

		// 存储到标准上下文,service层以下统一从标准上下文取值
		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, utils.ContextKeyClientIP, clientIP)
		ctx = context.WithValue(ctx, utils.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)

		// 处理请求
		c.Next()

		// 记录访问日志
		logger.LogAccessRequest(c, start, requestID)

		// 错误状态码追加错误日志
		statusCode := c.Writer.Status()
		if statusCode >= 400 {
			errorMsg := ""
			if ginErrors := c.Errors; len(ginErrors) > 0 {
				errorMsg = ginErrors.String()
			} else {
				errorMsg = fmt.Sprintf("HTTP %d", statusCode)
			}
			logger.LogError(fmt.Errorf("%s", errorMsg), requestID, clientIP,
				c.Request.URL.Path, c.Request.Method, map[string]interface{}{
					"status_code": statusCode,
				})
		}
	}
}
