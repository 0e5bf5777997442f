/**
 * 引擎服务层:任务服务门面
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务引擎对外的业务入口(批次处理/任务查询/取消/反思追加)
 * @func: TaskService结构体,串联摄入器-执行器-聚合器-登记表
 * @note: 批次内任务在各自goroutine中执行,彼此完全隔离
 */
package engine

import (
	"context"
	"sync"

	"neotask/internal/model/event"
	"neotask/internal/model/task"
	"neotask/internal/pkg/logger"
	"neotask/internal/repo/memory"
)

// TaskService 任务服务
type TaskService struct {
	ingestor *TaskIngestor
	executor *TaskExecutor
	registry *memory.TaskRegistry
	recorder EventRecorder
}

// NewTaskService 创建任务服务实例
func NewTaskService(ingestor *TaskIngestor, executor *TaskExecutor, registry *memory.TaskRegistry, recorder EventRecorder) *TaskService {
	if recorder == nil {
		recorder = &NoopEventRecorder{}
	}
	return &TaskService{
		ingestor: ingestor,
		executor: executor,
		registry: registry,
		recorder: recorder,
	}
}

// ProcessBatch 处理一个任务批次
// 1. 摄入校验并登记任务(单条失败不影响其余条目)
// 2. execute_immediately 时各任务在独立goroutine中执行并等待全部完成
// 3. 聚合批次汇总;self_destruct 的任务在结果返回前移出登记表
func (s *TaskService) ProcessBatch(ctx context.Context, req *task.BatchRequest) (*task.BatchSummary, error) {
	ingested, err := s.ingestor.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}

	// 登记任务并发出接收事件
	for _, t := range ingested.Tasks {
		if err := s.registry.Create(ctx, t); err != nil {
			return nil, err
		}
		s.recorder.Record(ctx, event.EventTaskReceived, t.ID, t.BatchID, map[string]interface{}{
			"actions":     t.ActionNames(),
			"is_parallel": t.IsParallel,
			"assigned_by": t.AssignedBy,
		})
	}

	created := make([]task.TaskResult, len(ingested.Tasks))

	if req.ExecuteImmediately {
		// 每个任务独立goroutine,互不影响
		var wg sync.WaitGroup
		for i, t := range ingested.Tasks {
			wg.Add(1)
			go func(i int, taskID string) {
				defer wg.Done()
				result, err := s.executor.Execute(ctx, taskID)
				if err != nil {
					logger.Errorf("task %s execution failed: %v", taskID, err)
					created[i] = task.TaskResult{
						TaskID: taskID,
						Status: task.TaskStatusError,
					}
					return
				}
				created[i] = *result
			}(i, t.ID)
		}
		wg.Wait()

		// 自毁任务在结果返回前移除
		if req.SelfDestruct {
			for _, t := range ingested.Tasks {
				if err := s.registry.Remove(ctx, t.ID); err != nil {
					logger.Warnf("failed to remove self-destruct task %s: %v", t.ID, err)
				}
			}
		}
	} else {
		// 延迟执行:任务保持received状态等待显式触发
		for i, t := range ingested.Tasks {
			created[i] = task.TaskResult{
				TaskID: t.ID,
				Status: task.TaskStatusReceived,
			}
		}
	}

	summary := BuildBatchSummary(ingested.BatchID, ingested.AssignedBy, len(req.Tasks), created, ingested.Failed)
	return summary, nil
}

// ExecuteTask 显式触发延迟任务的执行
// 自毁任务在结果返回前移出登记表
func (s *TaskService) ExecuteTask(ctx context.Context, taskID string) (*task.TaskResult, error) {
	t, err := s.registry.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	result, err := s.executor.Execute(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if t.SelfDestruct {
		if err := s.registry.Remove(ctx, taskID); err != nil {
			logger.Warnf("failed to remove self-destruct task %s: %v", taskID, err)
		}
	}

	return result, nil
}

// CancelTask 取消尚未开始执行的任务
func (s *TaskService) CancelTask(ctx context.Context, taskID string) (*task.Task, error) {
	if err := s.registry.Cancel(ctx, taskID); err != nil {
		return nil, err
	}

	t, err := s.registry.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, event.EventTaskCancelled, t.ID, t.BatchID, nil)
	return t, nil
}

// GetTask 按ID查询任务快照
// 终态任务的重复查询返回恒定结果
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*task.Task, error) {
	return s.registry.Get(ctx, taskID)
}

// ListActiveTasks 列出所有活跃任务
func (s *TaskService) ListActiveTasks(ctx context.Context) []*task.Task {
	return s.registry.ListActive(ctx)
}

// ListCompletedTasks 列出所有终态任务
func (s *TaskService) ListCompletedTasks(ctx context.Context) []*task.Task {
	return s.registry.ListCompleted(ctx)
}

// ListTasksByAssignee 按提交者列出任务
func (s *TaskService) ListTasksByAssignee(ctx context.Context, assignedBy string) []*task.Task {
	return s.registry.ListByAssignee(ctx, assignedBy)
}

// StatusSummary 统计登记表状态分布
func (s *TaskService) StatusSummary(ctx context.Context) *task.StatusSummary {
	return s.registry.StatusSummary(ctx)
}

// AppendReflection 向任务追加反思条目
func (s *TaskService) AppendReflection(ctx context.Context, taskID, text string, isFinal bool) (*task.Task, error) {
	t, err := s.registry.AppendReflection(ctx, taskID, text, isFinal)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, event.EventReflectionAppended, t.ID, t.BatchID, map[string]interface{}{
		"is_final":         isFinal,
		"reflection_count": len(t.Reflections),
	})
	return t, nil
}

// Capabilities 返回已注册的能力名称列表
func (s *TaskService) Capabilities() []string {
	return s.executor.dispatcher.Registry().Names()
}
