/**
 * 模型:错误定义
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务引擎的错误常量与校验错误类型
 * @func: 各种错误常量和ValidationError结构体
 */
package task

import (
	"errors"
	"fmt"
)

// 任务相关错误
var (
	// 登记表错误
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid status transition")

	// 执行错误
	ErrTaskNotExecutable = errors.New("task is not in an executable state")
	ErrUnknownAction     = errors.New("unknown action")

	// 批次错误
	ErrEmptyBatch = errors.New("batch contains no tasks")

	// 反思错误
	ErrReflectionFinalized = errors.New("reflection list is finalized")
)

// ValidationError 校验错误
// 摄入阶段对单个任务条目的校验失败，不会中止整个批次
type ValidationError struct {
	Field   string `json:"field,omitempty"` // 字段名
	Message string `json:"message"`         // 错误消息
}

// NewValidationError 创建校验错误
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsValidationError 检查是否为校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CapabilityError 能力执行错误
// 动作处理器失败时的错误，只影响对应的 ActionResult
type CapabilityError struct {
	Action  string // 动作名称
	Message string // 错误消息
}

// NewCapabilityError 创建能力执行错误
func NewCapabilityError(action, message string) *CapabilityError {
	return &CapabilityError{Action: action, Message: message}
}

// Error 实现error接口
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %s failed: %s", e.Action, e.Message)
}
