/**
 * 任务仓库层:任务登记表
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务登记表(内存存储,适合单实例部署),维护活跃与已完成两个视图
 * @func: 单纯数据访问,不应该包含业务逻辑
 * @note: 状态迁移单调递进,终态任务只进不出(除自毁移除)
 */
// internal/repo/memory/task.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"neotask/internal/model/task"
)

// TaskRegistry 内存任务登记表
// active 存放 received/processing 的任务，completed 存放进入终态的任务
type TaskRegistry struct {
	active    map[string]*task.Task
	completed map[string]*task.Task
	mutex     sync.RWMutex
}

// NewTaskRegistry 创建内存任务登记表实例
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		active:    make(map[string]*task.Task),
		completed: make(map[string]*task.Task),
	}
}

// Create 登记新任务
// 任务以 received 状态进入活跃视图，ID重复时返回错误
func (r *TaskRegistry) Create(ctx context.Context, t *task.Task) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("task and task id are required")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.active[t.ID]; exists {
		return fmt.Errorf("task already exists: %s", t.ID)
	}
	if _, exists := r.completed[t.ID]; exists {
		return fmt.Errorf("task already exists: %s", t.ID)
	}

	r.active[t.ID] = t.Clone()
	return nil
}

// Get 按ID查询任务
// 对外只返回深拷贝快照，重复查询同一终态任务结果恒定
func (r *TaskRegistry) Get(ctx context.Context, taskID string) (*task.Task, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if t, exists := r.active[taskID]; exists {
		return t.Clone(), nil
	}
	if t, exists := r.completed[taskID]; exists {
		return t.Clone(), nil
	}
	return nil, task.ErrTaskNotFound
}

// Start 将任务从 received 迁移到 processing
// 记录开始时间
func (r *TaskRegistry) Start(ctx context.Context, taskID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	t, exists := r.active[taskID]
	if !exists {
		return task.ErrTaskNotFound
	}
	if !t.Status.CanTransitionTo(task.TaskStatusProcessing) {
		return fmt.Errorf("%w: %s -> %s", task.ErrInvalidTransition, t.Status, task.TaskStatusProcessing)
	}

	now := time.Now()
	t.Status = task.TaskStatusProcessing
	t.StartedAt = &now
	return nil
}

// Complete 将任务从 processing 迁移到终态(completed/error)并写入聚合结果
// 任务移入已完成视图，此后结果不再变化
func (r *TaskRegistry) Complete(ctx context.Context, taskID string, status task.TaskStatus, result *task.TaskResult) error {
	if status != task.TaskStatusCompleted && status != task.TaskStatusError {
		return fmt.Errorf("%w: complete only accepts completed/error, got %s", task.ErrInvalidTransition, status)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	t, exists := r.active[taskID]
	if !exists {
		return task.ErrTaskNotFound
	}
	if !t.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", task.ErrInvalidTransition, t.Status, status)
	}

	now := time.Now()
	t.Status = status
	t.CompletedAt = &now
	if result != nil {
		t.Result = result.Clone()
	}

	delete(r.active, taskID)
	r.completed[taskID] = t
	return nil
}

// Cancel 将任务从 received 迁移到 cancelled
// 仅允许尚未开始执行的任务取消
func (r *TaskRegistry) Cancel(ctx context.Context, taskID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	t, exists := r.active[taskID]
	if !exists {
		if _, done := r.completed[taskID]; done {
			return fmt.Errorf("%w: task is already in a terminal state", task.ErrInvalidTransition)
		}
		return task.ErrTaskNotFound
	}
	if !t.Status.CanTransitionTo(task.TaskStatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", task.ErrInvalidTransition, t.Status, task.TaskStatusCancelled)
	}

	now := time.Now()
	t.Status = task.TaskStatusCancelled
	t.CompletedAt = &now

	delete(r.active, taskID)
	r.completed[taskID] = t
	return nil
}

// Remove 从登记表移除任务(自毁场景)
// 活跃与已完成视图都会检查，不存在时返回错误
func (r *TaskRegistry) Remove(ctx context.Context, taskID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.active[taskID]; exists {
		delete(r.active, taskID)
		return nil
	}
	if _, exists := r.completed[taskID]; exists {
		delete(r.completed, taskID)
		return nil
	}
	return task.ErrTaskNotFound
}

// AppendReflection 向任务追加反思条目
// 反思只增不改；最终反思落定后拒绝继续追加
func (r *TaskRegistry) AppendReflection(ctx context.Context, taskID, text string, isFinal bool) (*task.Task, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	t, exists := r.active[taskID]
	if !exists {
		t, exists = r.completed[taskID]
	}
	if !exists {
		return nil, task.ErrTaskNotFound
	}

	if t.IsReflectionFinal {
		return nil, task.ErrReflectionFinalized
	}

	t.Reflections = append(t.Reflections, task.Reflection{
		Text:      text,
		IsFinal:   isFinal,
		CreatedAt: time.Now(),
	})
	if isFinal {
		t.IsReflectionFinal = true
	}

	return t.Clone(), nil
}

// ListActive 列出所有活跃任务(received/processing)
// 按创建时间升序返回快照
func (r *TaskRegistry) ListActive(ctx context.Context) []*task.Task {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*task.Task, 0, len(r.active))
	for _, t := range r.active {
		result = append(result, t.Clone())
	}
	sortTasksByCreatedAt(result)
	return result
}

// ListCompleted 列出所有已进入终态的任务
func (r *TaskRegistry) ListCompleted(ctx context.Context) []*task.Task {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*task.Task, 0, len(r.completed))
	for _, t := range r.completed {
		result = append(result, t.Clone())
	}
	sortTasksByCreatedAt(result)
	return result
}

// ListByAssignee 按提交者列出任务(覆盖活跃与已完成视图)
func (r *TaskRegistry) ListByAssignee(ctx context.Context, assignedBy string) []*task.Task {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*task.Task, 0)
	for _, t := range r.active {
		if t.AssignedBy == assignedBy {
			result = append(result, t.Clone())
		}
	}
	for _, t := range r.completed {
		if t.AssignedBy == assignedBy {
			result = append(result, t.Clone())
		}
	}
	sortTasksByCreatedAt(result)
	return result
}

// StatusSummary 统计登记表状态分布
func (r *TaskRegistry) StatusSummary(ctx context.Context) *task.StatusSummary {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	summary := &task.StatusSummary{
		ByStatus: make(map[task.TaskStatus]int),
	}

	for _, t := range r.active {
		summary.Total++
		summary.Active++
		summary.ByStatus[t.Status]++
	}
	for _, t := range r.completed {
		summary.Total++
		summary.Completed++
		summary.ByStatus[t.Status]++
	}

	return summary
}

// sortTasksByCreatedAt 按创建时间升序排序，时间相同时按ID稳定排序
func sortTasksByCreatedAt(tasks []*task.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
