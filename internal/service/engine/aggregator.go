/**
 * 引擎服务层:结果聚合器
 * @author: sun977
 * @date: 2026.08.25
 * @description: 动作结果到任务级结果、任务结果到批次汇总的聚合
 * @func: BuildTaskResult、BuildBatchSummary
 */
package engine

import (
	"sort"
	"time"

	"neotask/internal/model/task"
)

// BuildTaskResult 聚合单任务的动作结果
// 结果按原始索引排序;任一动作失败则任务终态为error,否则为completed;
// 并行任务额外记录效率比(各动作耗时之和/墙钟耗时)
func BuildTaskResult(taskID string, results []task.ActionResult, wallClockMS int64, isParallel bool) *task.TaskResult {
	sorted := append([]task.ActionResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	result := &task.TaskResult{
		TaskID:          taskID,
		ActionResults:   sorted,
		TotalDurationMS: wallClockMS,
	}

	for _, ar := range sorted {
		result.ActionDurations += ar.DurationMS
		if ar.Success {
			result.SuccessfulCount++
		} else {
			result.FailedCount++
		}
	}

	if result.FailedCount > 0 {
		result.Status = task.TaskStatusError
	} else {
		result.Status = task.TaskStatusCompleted
	}

	if isParallel && wallClockMS > 0 {
		result.EfficiencyRatio = float64(result.ActionDurations) / float64(wallClockMS)
	}

	return result
}

// BuildBatchSummary 聚合批次执行汇总
// totalTasks 为请求中的原始条目数;批次状态:
// 全部创建成功=success,全部校验失败=failed,其余=partial
func BuildBatchSummary(batchID, assignedBy string, totalTasks int, created []task.TaskResult, failed []task.FailedTask) *task.BatchSummary {
	summary := &task.BatchSummary{
		BatchID:      batchID,
		TotalTasks:   totalTasks,
		CreatedTasks: created,
		FailedTasks:  failed,
		AssignedBy:   assignedBy,
		Timestamp:    time.Now(),
	}
	if summary.CreatedTasks == nil {
		summary.CreatedTasks = []task.TaskResult{}
	}
	if summary.FailedTasks == nil {
		summary.FailedTasks = []task.FailedTask{}
	}

	switch {
	case len(failed) == 0:
		summary.Status = task.BatchStatusSuccess
	case len(created) == 0:
		summary.Status = task.BatchStatusFailed
	default:
		summary.Status = task.BatchStatusPartial
	}

	return summary
}
