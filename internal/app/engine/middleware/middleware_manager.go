/**
 * 中间件:中间件管理器
 * @author: sun977
 * @date: 2026.08.25
 * @description: 管理所有Gin框架的中间件，提供统一的中间件接口
 * @func: MiddlewareManager结构体、SetupGlobalMiddleware
 */
package middleware

import (
	"neotask/internal/config"

	"github.com/gin-gonic/gin"
)

// MiddlewareManager 中间件管理器
type MiddlewareManager struct {
	config *config.Config
}

// NewMiddlewareManager 创建中间件管理器
func NewMiddlewareManager(cfg *config.Config) *MiddlewareManager {
	return &MiddlewareManager{
		config: cfg,
	}
}

// SetupGlobalMiddleware 按固定顺序装配全局中间件
// 顺序:恢复 -> 请求ID -> 日志 -> CORS -> 安全头
func (m *MiddlewareManager) SetupGlobalMiddleware(engine *gin.Engine) {
	engine.Use(m.GinRecoveryMiddleware())
	engine.Use(m.GinRequestIDMiddleware())
	engine.Use(m.GinLoggingMiddleware())
	engine.Use(m.GinCORSMiddleware())
	engine.Use(m.GinSecurityHeadersMiddleware())
}
