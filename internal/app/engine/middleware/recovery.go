/**
 * 中间件:恢复中间件
 * @author: sun977
 * @date: 2026.08.25
 * @description: 拦截处理链中的panic,记录错误日志并返回500响应
 * @func: GinRecoveryMiddleware
 */
package middleware

import (
	"fmt"
	"net/http"

	"neotask/internal/model"
	"neotask/internal/pkg/logger"
	"neotask/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinRecoveryMiddleware 恢复中间件
// 处理链中的panic在这里收口,避免单个请求击穿整个进程
func (m *MiddlewareManager) GinRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID := utils.GetRequestIDFromGinContext(c)
				logger.LogError(fmt.Errorf("panic recovered: %v", r), requestID,
					c.ClientIP(), c.Request.URL.Path, c.Request.Method, map[string]interface{}{
						"operation": "panic_recovery",
					})

				c.AbortWithStatusJSON(http.StatusInternalServerError, model.APIResponse{
					Code:    http.StatusInternalServerError,
					Status:  "failed",
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
