/*
 * @author: sun977
 * @date: 2025.11.20
 * @description: ID生成工具包
 * @func: 提供任务ID、批次ID、请求ID等唯一标识的生成函数
 */

package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// 标识前缀常量
const (
	TaskIDPrefix    = "task"    // 任务ID前缀
	BatchIDPrefix   = "batch"   // 批次ID前缀
	RequestIDPrefix = "req"     // 请求ID前缀
)

// GenerateUUID 生成UUID v4（基于随机数）
// 返回标准格式的UUID字符串，如：550e8400-e29b-41d4-a716-446655440000
func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateUUIDWithPrefix 生成带前缀的UUID
// prefix: 前缀字符串
// 返回格式：prefix_uuid，如：task_550e8400-e29b-41d4-a716-446655440000
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

// GenerateTaskID 生成任务唯一标识
func GenerateTaskID() string {
	return GenerateUUIDWithPrefix(TaskIDPrefix)
}

// GenerateBatchID 生成批次唯一标识
// 同一批次提交的所有任务共享此标识
func GenerateBatchID() string {
	return GenerateUUIDWithPrefix(BatchIDPrefix)
}

// GenerateRequestID 生成请求唯一标识（短格式）
// 用于HTTP请求链路追踪，取UUID前8位
// 注意：短ID存在碰撞风险，仅用于日志关联，不作为存储主键
func GenerateRequestID() string {
	simple := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s", RequestIDPrefix, simple[:8])
}

// IsValidUUID 校验UUID格式是否有效
// 支持标准格式（带连字符）
func IsValidUUID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
