/**
 * 任务仓库层:事件归档数据访问
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务事件归档(MySQL存储,供事后审计查询)
 * @func: 单纯数据访问,不应该包含业务逻辑
 */
package event

import (
	"context"

	"gorm.io/gorm"

	"neotask/internal/model/event"
)

// EventRepository 任务事件归档数据访问接口
type EventRepository interface {
	CreateEvent(ctx context.Context, e *event.TaskEvent) error
	GetEventsByTaskID(ctx context.Context, taskID string) ([]event.TaskEvent, error)
	GetEventsByBatchID(ctx context.Context, batchID string) ([]event.TaskEvent, error)
	CountEventsByType(ctx context.Context, eventType string) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建事件归档存储库实例
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// AutoMigrate 创建/更新事件归档表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&event.TaskEvent{})
}

func (r *eventRepository) CreateEvent(ctx context.Context, e *event.TaskEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// GetEventsByTaskID 按任务ID查询事件(按写入顺序)
func (r *eventRepository) GetEventsByTaskID(ctx context.Context, taskID string) ([]event.TaskEvent, error) {
	var events []event.TaskEvent
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetEventsByBatchID 按批次ID查询事件(按写入顺序)
func (r *eventRepository) GetEventsByBatchID(ctx context.Context, batchID string) ([]event.TaskEvent, error) {
	var events []event.TaskEvent
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CountEventsByType(ctx context.Context, eventType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&event.TaskEvent{}).
		Where("event_type = ?", eventType).
		Count(&count).Error
	return count, err
}
