/**
 * 引擎服务层:任务执行器
 * @author: sun977
 * @date: 2026.08.25
 * @description: 驱动单个任务的状态流转并执行动作序列(顺序链式/有界并行两种模式)
 * @func: TaskExecutor结构体、顺序执行与并行工作池
 * @note: 动作失败不中止序列;并行动作彼此不可见;结果始终按原始索引排序
 */
package engine

import (
	"context"
	"sync"
	"time"

	"neotask/internal/model/event"
	"neotask/internal/model/task"
	"neotask/internal/pkg/logger"
	"neotask/internal/repo/memory"
)

// 顺序执行时注入上下文的参数键
// 值为 map[动作名称]先前成功动作的输出
// 该键为保留键:任务参数中的同名键会在首个成功动作之后被快照覆盖
const contextParamKey = "context"

// TaskExecutor 任务执行器
type TaskExecutor struct {
	registry           *memory.TaskRegistry
	dispatcher         *ActionDispatcher
	recorder           EventRecorder
	maxParallelActions int
}

// NewTaskExecutor 创建任务执行器实例
func NewTaskExecutor(registry *memory.TaskRegistry, dispatcher *ActionDispatcher, recorder EventRecorder, maxParallelActions int) *TaskExecutor {
	if maxParallelActions <= 0 {
		maxParallelActions = 8
	}
	if recorder == nil {
		recorder = &NoopEventRecorder{}
	}
	return &TaskExecutor{
		registry:           registry,
		dispatcher:         dispatcher,
		recorder:           recorder,
		maxParallelActions: maxParallelActions,
	}
}

// Execute 执行指定任务直至终态
// 1. received -> processing
// 2. 按模式执行动作序列
// 3. 聚合结果并写入登记表(processing -> completed/error)
func (e *TaskExecutor) Execute(ctx context.Context, taskID string) (*task.TaskResult, error) {
	t, err := e.registry.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != task.TaskStatusReceived {
		return nil, task.ErrTaskNotExecutable
	}

	if err := e.registry.Start(ctx, taskID); err != nil {
		return nil, err
	}
	e.recorder.Record(ctx, event.EventTaskStarted, t.ID, t.BatchID, map[string]interface{}{
		"actions":     t.ActionNames(),
		"is_parallel": t.IsParallel,
	})

	startTime := time.Now()
	var results []task.ActionResult
	if t.IsParallel {
		results = e.executeParallel(ctx, t)
	} else {
		results = e.executeSequential(ctx, t)
	}
	wallClockMS := time.Since(startTime).Milliseconds()

	result := BuildTaskResult(t.ID, results, wallClockMS, t.IsParallel)

	if err := e.registry.Complete(ctx, taskID, result.Status, result); err != nil {
		return nil, err
	}

	terminalEvent := event.EventTaskCompleted
	if result.Status == task.TaskStatusError {
		terminalEvent = event.EventTaskError
	}
	e.recorder.Record(ctx, terminalEvent, t.ID, t.BatchID, map[string]interface{}{
		"successful_count":  result.SuccessfulCount,
		"failed_count":      result.FailedCount,
		"total_duration_ms": result.TotalDurationMS,
	})
	logger.LogTaskOperation(t.ID, t.BatchID, "", string(result.Status), result.TotalDurationMS,
		"task execution finished", map[string]interface{}{
			"successful_count": result.SuccessfulCount,
			"failed_count":     result.FailedCount,
		})

	return result, nil
}

// executeSequential 顺序执行动作序列
// 先前成功动作的输出以快照形式注入后续动作的参数上下文;
// 失败动作只影响自身,序列中其余动作照常执行
func (e *TaskExecutor) executeSequential(ctx context.Context, t *task.Task) []task.ActionResult {
	results := make([]task.ActionResult, 0, len(t.ActionSequence))
	outputs := make(map[string]interface{})

	for _, spec := range t.ActionSequence {
		params := e.buildSequentialParams(t.Params, outputs)
		result := e.dispatcher.Dispatch(ctx, spec, params)
		results = append(results, result)

		e.recordActionEvent(ctx, t, result)

		if result.Success {
			outputs[spec.Name] = result.Output
		}
	}

	return results
}

// buildSequentialParams 构造顺序执行时单个动作的参数
// 任务原始参数与先前输出的上下文都按值快照,动作内部的修改不会外泄
func (e *TaskExecutor) buildSequentialParams(base map[string]interface{}, outputs map[string]interface{}) map[string]interface{} {
	params := make(map[string]interface{}, len(base)+1)
	for k, v := range base {
		params[k] = v
	}

	if len(outputs) > 0 {
		snapshot := make(map[string]interface{}, len(outputs))
		for name, output := range outputs {
			snapshot[name] = output
		}
		params[contextParamKey] = snapshot
	}

	return params
}

// executeParallel 并行执行动作序列(有界工作池)
// 工作池大小为 min(动作数, 配置上限);动作之间互不可见,
// 每个动作只拿到任务原始参数的独立副本;结果按原始索引归位
func (e *TaskExecutor) executeParallel(ctx context.Context, t *task.Task) []task.ActionResult {
	actionCount := len(t.ActionSequence)
	results := make([]task.ActionResult, actionCount)

	workerCount := e.maxParallelActions
	if actionCount < workerCount {
		workerCount = actionCount
	}

	sem := make(chan struct{}, workerCount)
	var wg sync.WaitGroup

	for _, spec := range t.ActionSequence {
		wg.Add(1)
		go func(spec task.ActionSpec) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			params := make(map[string]interface{}, len(t.Params))
			for k, v := range t.Params {
				params[k] = v
			}

			result := e.dispatcher.Dispatch(ctx, spec, params)
			results[spec.Index] = result

			e.recordActionEvent(ctx, t, result)
		}(spec)
	}

	wg.Wait()
	return results
}

// recordActionEvent 发出单动作完成/失败事件
func (e *TaskExecutor) recordActionEvent(ctx context.Context, t *task.Task, result task.ActionResult) {
	eventType := event.EventActionCompleted
	if !result.Success {
		eventType = event.EventActionFailed
	}

	payload := map[string]interface{}{
		"action":      result.Name,
		"index":       result.Index,
		"duration_ms": result.DurationMS,
	}
	if result.Error != "" {
		payload["error"] = result.Error
	}
	e.recorder.Record(ctx, eventType, t.ID, t.BatchID, payload)
}
