/**
 * 模型:执行结果
 * @author: sun977
 * @date: 2026.08.25
 * @description: 单动作结果与任务级聚合结果定义
 * @func: ActionResult、TaskResult
 */
package task

// ActionResult 单个动作的执行结果
// Index 唯一且等于动作在 action_sequence 中的位置，与完成顺序无关
type ActionResult struct {
	Index      int         `json:"index"`            // 原始序列位置
	Name       string      `json:"name"`             // 动作名称
	Success    bool        `json:"success"`          // 是否成功
	DurationMS int64       `json:"duration_ms"`      // 执行耗时(毫秒)
	Output     interface{} `json:"output,omitempty"` // 成功时的输出
	Error      string      `json:"error,omitempty"`  // 失败时的错误信息
}

// TaskResult 任务级聚合结果
// ActionResults 按原始索引排序；并行任务额外记录各动作耗时之和与效率比，
// 便于调用方计算并行加速比
type TaskResult struct {
	TaskID          string         `json:"task_id"`
	Status          TaskStatus     `json:"status"`
	ActionResults   []ActionResult `json:"action_results"`
	TotalDurationMS int64          `json:"total_duration_ms"`          // 墙钟总耗时(毫秒)
	ActionDurations int64          `json:"action_durations_ms"`        // 各动作耗时之和(毫秒)
	SuccessfulCount int            `json:"successful_count"`           // 成功动作数
	FailedCount     int            `json:"failed_count"`               // 失败动作数
	EfficiencyRatio float64        `json:"efficiency_ratio,omitempty"` // 并行效率比 = 耗时之和/墙钟耗时
}

// Clone 返回结果的深拷贝
func (r *TaskResult) Clone() *TaskResult {
	if r == nil {
		return nil
	}
	cp := *r
	cp.ActionResults = append([]ActionResult(nil), r.ActionResults...)
	return &cp
}
