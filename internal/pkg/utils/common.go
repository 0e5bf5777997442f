/*
 * @author: sun977
 * @date: 2025.11.20
 * @description: 通用的工具包
 * @func:
 */

package utils

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ContextKey 类型用于标准上下文键的定义，避免使用裸字符串造成键冲突
type ContextKey string

const (
	// ContextKeyClientIP 标准上下文中存储客户端IP的统一键
	ContextKeyClientIP ContextKey = "client_ip"
	// ContextKeyRequestID 标准上下文中存储请求ID的统一键
	ContextKeyRequestID ContextKey = "request_id"
)

// GetClientIP 从 Gin 上下文中提取客户端IP并标准化
// 优先使用 gin 内置的 ClientIP()（已处理 X-Forwarded-For / X-Real-IP）
func GetClientIP(c *gin.Context) string {
	return NormalizeIP(c.ClientIP())
}

// GetRequestIDFromGinContext 从 Gin 上下文中提取请求ID
// 来源：request_id 由logging中间件写入Gin上下文，不存在则返回空字符串
func GetRequestIDFromGinContext(c *gin.Context) string {
	if v, ok := c.Get(string(ContextKeyRequestID)); ok {
		if id, ok2 := v.(string); ok2 {
			return id
		}
	}
	return ""
}

// GetClientIPFromContext 从标准上下文读取客户端IP（统一键）
// 适用范围：service 层以下获取当前 clientIP 使用
// 说明：
// - 使用 ContextKeyClientIP 作为唯一键，保证读写一致，跨包可用
// - 如果不存在或类型不匹配，返回空字符串
func GetClientIPFromContext(ctx context.Context) string {
	v := ctx.Value(ContextKeyClientIP)
	if ip, ok := v.(string); ok {
		return ip
	}
	return ""
}

// GetRequestIDFromContext 从标准上下文读取请求ID（统一键）
func GetRequestIDFromContext(ctx context.Context) string {
	v := ctx.Value(ContextKeyRequestID)
	if id, ok := v.(string); ok {
		return id
	}
	return ""
}
