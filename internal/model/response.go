/**
 * 模型:响应模型
 * @author: sun977
 * @date: 2026.08.25
 * @description: API响应数据模型
 * @func: APIResponse、ValidationError结构体定义
 */
package model

// APIResponse 通用API响应结构
type APIResponse struct {
	Code    int               `json:"code,omitempty"`   // 响应状态码，可选
	Status  string            `json:"status"`           // 响应状态："success" 或 "failed"
	Message string            `json:"message"`          // 响应消息
	Data    interface{}       `json:"data,omitempty"`   // 响应数据，可选
	Error   string            `json:"error,omitempty"`  // 错误信息，可选
	Errors  []ValidationError `json:"errors,omitempty"` // 验证错误列表，可选
}

// ValidationError 请求参数验证错误
type ValidationError struct {
	Field   string `json:"field,omitempty"` // 字段名
	Message string `json:"message"`         // 错误消息
}
