/**
 * 任务仓库层:事件流数据访问
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务事件流(Redis存储,供外部消费者订阅消费)
 * @func: 单纯数据访问,不应该包含业务逻辑
 * @note: 事件是旁路观测数据,写入失败由上层吞掉,绝不影响任务执行
 */
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"neotask/internal/model/event"

	"github.com/go-redis/redis/v8"
)

// 事件流保留的最大条目数，超出后裁剪旧事件
const eventStreamMaxLen = 10000

// EventRepository Redis事件流存储库
type EventRepository struct {
	client *redis.Client
}

// NewEventRepository 创建事件流存储库实例
func NewEventRepository(client *redis.Client) *EventRepository {
	return &EventRepository{
		client: client,
	}
}

// eventEnvelope 事件流中的单条记录
type eventEnvelope struct {
	EventType string `json:"event_type"`
	TaskID    string `json:"task_id"`
	BatchID   string `json:"batch_id"`
	Payload   string `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

// PublishEvent 发布任务事件到全局事件流
// 使用 RPUSH + LTRIM 维护固定长度的事件列表
func (r *EventRepository) PublishEvent(ctx context.Context, e *event.TaskEvent) error {
	if e == nil {
		return fmt.Errorf("event cannot be nil")
	}

	envelope := eventEnvelope{
		EventType: e.EventType,
		TaskID:    e.TaskID,
		BatchID:   e.BatchID,
		Payload:   e.Payload,
		Timestamp: time.Now().Format("2006-01-02 15:04:05.000"),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, r.getStreamKey(), data)
	pipe.LTrim(ctx, r.getStreamKey(), int64(-eventStreamMaxLen), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// GetRecentEvents 获取最近的count条事件(从新到旧)
func (r *EventRepository) GetRecentEvents(ctx context.Context, count int64) ([]*event.TaskEvent, error) {
	if count <= 0 {
		count = 100
	}

	raw, err := r.client.LRange(ctx, r.getStreamKey(), -count, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event stream: %w", err)
	}

	events := make([]*event.TaskEvent, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var envelope eventEnvelope
		if err := json.Unmarshal([]byte(raw[i]), &envelope); err != nil {
			// 跳过损坏的条目
			continue
		}
		events = append(events, &event.TaskEvent{
			EventType: envelope.EventType,
			TaskID:    envelope.TaskID,
			BatchID:   envelope.BatchID,
			Payload:   envelope.Payload,
		})
	}

	return events, nil
}

// getStreamKey 生成事件流键[KEY:neotask:events]
func (r *EventRepository) getStreamKey() string {
	return "neotask:events"
}
