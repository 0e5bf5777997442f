/**
 * 引擎服务层:任务摄入器
 * @author: sun977
 * @date: 2026.08.25
 * @description: 批次请求的校验与任务实体创建(N个条目产出N-M个任务+M个失败记录)
 * @func: TaskIngestor结构体、动作字段归一化与校验
 * @note: 单个条目的校验失败绝不中止批次,其余条目照常摄入
 */
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"neotask/internal/model/task"
	"neotask/internal/pkg/utils"
)

// TaskIngestor 任务摄入器
// 把外部提交的原始批次转化为已登记的任务实体
type TaskIngestor struct {
	defaultAssignedBy string
}

// NewTaskIngestor 创建任务摄入器实例
func NewTaskIngestor(defaultAssignedBy string) *TaskIngestor {
	if strings.TrimSpace(defaultAssignedBy) == "" {
		defaultAssignedBy = "system"
	}
	return &TaskIngestor{
		defaultAssignedBy: defaultAssignedBy,
	}
}

// IngestResult 摄入结果
// Tasks 为通过校验并已创建的任务,Failed 为被拒绝的条目及原因
type IngestResult struct {
	BatchID    string
	AssignedBy string
	Tasks      []*task.Task
	Failed     []task.FailedTask
}

// Ingest 摄入一个批次
// 1. 空批次直接拒绝
// 2. 逐条校验动作字段,失败条目记录原因后跳过
// 3. 通过校验的条目创建任务实体(received状态,共享批次ID)
func (i *TaskIngestor) Ingest(ctx context.Context, req *task.BatchRequest) (*IngestResult, error) {
	if req == nil || len(req.Tasks) == 0 {
		return nil, task.ErrEmptyBatch
	}

	assignedBy := strings.TrimSpace(req.AssignedBy)
	if assignedBy == "" {
		assignedBy = i.defaultAssignedBy
	}

	result := &IngestResult{
		BatchID:    utils.GenerateBatchID(),
		AssignedBy: assignedBy,
		Tasks:      make([]*task.Task, 0, len(req.Tasks)),
		Failed:     make([]task.FailedTask, 0),
	}

	now := time.Now()
	for index, raw := range req.Tasks {
		actions, err := normalizeActions(raw.Action)
		if err != nil {
			result.Failed = append(result.Failed, task.FailedTask{
				Index: index,
				Error: err.Error(),
			})
			continue
		}

		sequence := make([]task.ActionSpec, 0, len(actions))
		for pos, name := range actions {
			sequence = append(sequence, task.ActionSpec{Index: pos, Name: name})
		}

		t := &task.Task{
			ID:             utils.GenerateTaskID(),
			BatchID:        result.BatchID,
			ActionSequence: sequence,
			IsParallel:     raw.IsParallel,
			Params:         raw.Params,
			Status:         task.TaskStatusReceived,
			AssignedBy:     assignedBy,
			SelfDestruct:   req.SelfDestruct,
			CreatedAt:      now,
		}
		result.Tasks = append(result.Tasks, t)
	}

	return result, nil
}

// normalizeActions 归一化动作字段
// 接受单个名称(string)或名称列表([]string / JSON解码产生的[]interface{}),
// 其余形态与空值一律返回校验错误
func normalizeActions(action interface{}) ([]string, error) {
	switch v := action.(type) {
	case nil:
		return nil, &task.ValidationError{Field: "action", Message: "action is required"}

	case string:
		name := strings.TrimSpace(v)
		if name == "" {
			return nil, &task.ValidationError{Field: "action", Message: "action name cannot be empty"}
		}
		return []string{name}, nil

	case []string:
		return validateActionList(v)

	case []interface{}:
		names := make([]string, 0, len(v))
		for pos, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, &task.ValidationError{
					Field:   "action",
					Message: fmt.Sprintf("action list element %d must be a string", pos),
				}
			}
			names = append(names, name)
		}
		return validateActionList(names)

	default:
		return nil, &task.ValidationError{
			Field:   "action",
			Message: fmt.Sprintf("action must be a string or a list of strings, got %T", action),
		}
	}
}

// validateActionList 校验动作名称列表
func validateActionList(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, &task.ValidationError{Field: "action", Message: "action list cannot be empty"}
	}

	result := make([]string, 0, len(names))
	for pos, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &task.ValidationError{
				Field:   "action",
				Message: fmt.Sprintf("action list element %d cannot be empty", pos),
			}
		}
		result = append(result, name)
	}
	return result, nil
}
