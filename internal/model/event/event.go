/**
 * 模型:任务事件实体
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务执行过程的事件记录(归档到MySQL/Redis，尽力而为)
 * @func: TaskEvent结构体与事件类型常量
 */
package event

import (
	"neotask/internal/model/basemodel"
)

// 事件类型常量
// 执行引擎至少在以下节点发出事件:任务接收、开始执行、每个动作完成/失败、任务终态
const (
	EventTaskReceived       = "task_received"
	EventTaskStarted        = "task_started"
	EventActionCompleted    = "action_completed"
	EventActionFailed       = "action_failed"
	EventTaskCompleted      = "task_completed"
	EventTaskError          = "task_error"
	EventTaskCancelled      = "task_cancelled"
	EventReflectionAppended = "reflection_appended"
)

// TaskEvent 任务事件实体
// 事件记录是旁路观测数据，写入失败绝不影响任务执行
type TaskEvent struct {
	basemodel.BaseModel

	EventType string `json:"event_type" gorm:"index;not null;size:50;comment:事件类型"`
	TaskID    string `json:"task_id" gorm:"index;not null;size:100;comment:任务唯一标识ID"`
	BatchID   string `json:"batch_id" gorm:"index;size:100;comment:所属批次ID"`
	Payload   string `json:"payload" gorm:"type:json;comment:事件负载(JSON)"`
}

// TableName 定义表名
func (TaskEvent) TableName() string {
	return "task_events"
}
