/**
 * 模型:任务实体
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务执行引擎的核心实体定义(任务/动作/反思)
 * @func: Task结构体、TaskStatus状态机常量、ActionSpec、Reflection
 */
package task

import "time"

// TaskStatus 任务状态
// 状态机: received -> processing -> {completed | error | cancelled}
// 状态迁移单调递进，终态不可再变更
type TaskStatus string

const (
	TaskStatusReceived   TaskStatus = "received"   // 已接收(尚未执行)
	TaskStatusProcessing TaskStatus = "processing" // 执行中
	TaskStatusCompleted  TaskStatus = "completed"  // 全部动作成功
	TaskStatusError      TaskStatus = "error"      // 至少一个动作失败
	TaskStatusCancelled  TaskStatus = "cancelled"  // 执行前被取消
)

// IsTerminal 判断状态是否为终态
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError || s == TaskStatusCancelled
}

// CanTransitionTo 判断状态是否允许迁移到目标状态
// 只允许前向迁移: received -> processing -> 终态; received -> cancelled
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusReceived:
		return next == TaskStatusProcessing || next == TaskStatusCancelled
	case TaskStatusProcessing:
		return next == TaskStatusCompleted || next == TaskStatusError
	default:
		// 终态不允许任何迁移
		return false
	}
}

// ActionSpec 动作规格
// 任务中一个具名的工作单元，Name 对应能力提供者注册名
type ActionSpec struct {
	Index int    `json:"index"` // 在动作序列中的位置(0起始)
	Name  string `json:"name"`  // 动作名称
}

// Reflection 反思条目
// 由外部递归自省流程追加，只增不改，保持追加顺序
type Reflection struct {
	Text      string    `json:"text"`       // 反思内容
	IsFinal   bool      `json:"is_final"`   // 是否为最终反思
	CreatedAt time.Time `json:"created_at"` // 追加时间
}

// Task 任务实体
// 由 TaskIngestor 在摄入时创建，仅由 TaskExecutor 在执行期间变更，
// 进入终态后不可再修改(反思追加除外)
type Task struct {
	ID             string                 `json:"id"`                     // 任务唯一标识
	BatchID        string                 `json:"batch_id"`               // 所属批次ID
	ActionSequence []ActionSpec           `json:"action_sequence"`        // 有序动作序列(非空)
	IsParallel     bool                   `json:"is_parallel"`            // 是否并行执行动作
	Params         map[string]interface{} `json:"params,omitempty"`       // 原始任务参数(自由格式)
	Status         TaskStatus             `json:"status"`                 // 当前状态
	AssignedBy     string                 `json:"assigned_by"`            // 提交者
	SelfDestruct   bool                   `json:"self_destruct"`          // 结果返回后是否从登记表移除
	CreatedAt      time.Time              `json:"created_at"`             // 创建时间
	StartedAt      *time.Time             `json:"started_at,omitempty"`   // 开始执行时间
	CompletedAt    *time.Time             `json:"completed_at,omitempty"` // 完成时间

	// 反思列表(追加序)与最终标记
	Reflections       []Reflection `json:"reflections,omitempty"`
	IsReflectionFinal bool         `json:"is_reflection_final"`

	// 执行结果，终态后写入且不再变化
	Result *TaskResult `json:"result,omitempty"`
}

// ActionNames 返回动作序列的名称列表
func (t *Task) ActionNames() []string {
	names := make([]string, 0, len(t.ActionSequence))
	for _, spec := range t.ActionSequence {
		names = append(names, spec.Name)
	}
	return names
}

// Clone 返回任务的深拷贝快照
// 登记表对外只暴露快照，保证调用方拿到的终态结果不可变
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t

	cp.ActionSequence = append([]ActionSpec(nil), t.ActionSequence...)
	cp.Reflections = append([]Reflection(nil), t.Reflections...)

	if t.Params != nil {
		params := make(map[string]interface{}, len(t.Params))
		for k, v := range t.Params {
			params[k] = v
		}
		cp.Params = params
	}
	if t.StartedAt != nil {
		startedAt := *t.StartedAt
		cp.StartedAt = &startedAt
	}
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		cp.CompletedAt = &completedAt
	}
	if t.Result != nil {
		result := t.Result.Clone()
		cp.Result = result
	}
	return &cp
}
