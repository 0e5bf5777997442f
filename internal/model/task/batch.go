/**
 * 模型:批次请求与批次汇总
 * @author: sun977
 * @date: 2026.08.25
 * @description: 对外接口的入参(BatchRequest/RawTask)与出参(BatchSummary)定义
 * @func: BatchRequest、RawTask、BatchSummary、FailedTask
 */
package task

import (
	"encoding/json"
	"time"
)

// 批次状态常量
const (
	BatchStatusSuccess = "success" // 全部任务创建成功
	BatchStatusPartial = "partial" // 部分任务校验失败
	BatchStatusFailed  = "failed"  // 全部任务校验失败
)

// RawTask 原始任务条目
// Action 允许为单个名称或名称列表；其余字段为自由格式参数
type RawTask struct {
	Action     interface{}            `json:"action"`      // string 或 []string
	IsParallel bool                   `json:"is_parallel"` // 默认false(顺序执行)
	Params     map[string]interface{} `json:"params,omitempty"`
}

// UnmarshalJSON 解析原始任务条目
// action/is_parallel 之外的顶层键全部收进自由格式参数;
// 兼容嵌套的 params 对象,同名时顶层键优先
func (r *RawTask) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["action"]; ok {
		if err := json.Unmarshal(raw, &r.Action); err != nil {
			return err
		}
	}
	if raw, ok := fields["is_parallel"]; ok {
		if err := json.Unmarshal(raw, &r.IsParallel); err != nil {
			return err
		}
	}

	params := make(map[string]interface{})
	if raw, ok := fields["params"]; ok {
		var nested map[string]interface{}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return err
		}
		for k, v := range nested {
			params[k] = v
		}
	}
	for key, raw := range fields {
		if key == "action" || key == "is_parallel" || key == "params" {
			continue
		}
		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		params[key] = value
	}
	if len(params) > 0 {
		r.Params = params
	}
	return nil
}

// BatchRequest 批次提交请求
type BatchRequest struct {
	Tasks              []RawTask `json:"tasks"`
	AssignedBy         string    `json:"assigned_by"`
	ExecuteImmediately bool      `json:"execute_immediately"`
	SelfDestruct       bool      `json:"self_destruct"`
}

// FailedTask 校验失败的任务条目
// Index 为条目在原始请求中的位置
type FailedTask struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BatchSummary 批次执行汇总
// CreatedTasks 覆盖所有通过校验的条目；FailedTasks 列出其余条目
type BatchSummary struct {
	BatchID      string       `json:"batch_id"`
	TotalTasks   int          `json:"total_tasks"`
	CreatedTasks []TaskResult `json:"created_tasks"`
	FailedTasks  []FailedTask `json:"failed_tasks"`
	AssignedBy   string       `json:"assigned_by"`
	Timestamp    time.Time    `json:"timestamp"`
	Status       string       `json:"status"` // success / partial / failed
}

// StatusSummary 任务登记表状态汇总(按状态计数)
type StatusSummary struct {
	Total     int                `json:"total"`
	Active    int                `json:"active"`
	Completed int                `json:"completed"`
	ByStatus  map[TaskStatus]int `json:"by_status"`
}
