/**
 * 引擎服务层:事件记录器
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务执行过程的事件记录(日志/Redis事件流/MySQL归档)
 * @func: EventRecorder接口与多种落地实现
 * @note: 事件记录是尽力而为的旁路观测,任何落地失败都只记日志,绝不影响任务执行
 */
package engine

import (
	"context"
	"encoding/json"
	"time"

	"neotask/internal/model/event"
	"neotask/internal/pkg/logger"
	mysqlevent "neotask/internal/repo/mysql/event"
	redisrepo "neotask/internal/repo/redis"

	"github.com/sirupsen/logrus"
)

// EventRecorder 事件记录器接口
// Record 不返回错误:实现方必须自行吞掉失败
type EventRecorder interface {
	Record(ctx context.Context, eventType, taskID, batchID string, payload map[string]interface{})
}

// 远端落地(Redis/MySQL)的单次写入超时
const recordTimeout = 3 * time.Second

// marshalPayload 序列化事件负载，失败时返回空串
func marshalPayload(payload map[string]interface{}) string {
	if len(payload) == 0 {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

// LogEventRecorder 日志事件记录器(始终开启)
type LogEventRecorder struct{}

// NewLogEventRecorder 创建日志事件记录器实例
func NewLogEventRecorder() *LogEventRecorder {
	return &LogEventRecorder{}
}

// Record 将事件写入任务日志
func (r *LogEventRecorder) Record(ctx context.Context, eventType, taskID, batchID string, payload map[string]interface{}) {
	fields := map[string]interface{}{
		"event_type": eventType,
	}
	for k, v := range payload {
		fields[k] = v
	}
	logger.LogTaskOperation(taskID, batchID, "", eventType, 0, "task event recorded", fields)
}

// RedisEventRecorder Redis事件流记录器
type RedisEventRecorder struct {
	repo *redisrepo.EventRepository
}

// NewRedisEventRecorder 创建Redis事件流记录器实例
func NewRedisEventRecorder(repo *redisrepo.EventRepository) *RedisEventRecorder {
	return &RedisEventRecorder{repo: repo}
}

// Record 异步发布事件到Redis事件流
func (r *RedisEventRecorder) Record(ctx context.Context, eventType, taskID, batchID string, payload map[string]interface{}) {
	e := &event.TaskEvent{
		EventType: eventType,
		TaskID:    taskID,
		BatchID:   batchID,
		Payload:   marshalPayload(payload),
	}

	go func() {
		publishCtx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := r.repo.PublishEvent(publishCtx, e); err != nil {
			logger.LogSystemEvent("event_recorder", "redis_publish_failed", err.Error(), logrus.WarnLevel, map[string]interface{}{
				"event_type": eventType,
				"task_id":    taskID,
			})
		}
	}()
}

// MySQLEventRecorder MySQL事件归档记录器
type MySQLEventRecorder struct {
	repo mysqlevent.EventRepository
}

// NewMySQLEventRecorder 创建MySQL事件归档记录器实例
func NewMySQLEventRecorder(repo mysqlevent.EventRepository) *MySQLEventRecorder {
	return &MySQLEventRecorder{repo: repo}
}

// Record 异步归档事件到MySQL
func (r *MySQLEventRecorder) Record(ctx context.Context, eventType, taskID, batchID string, payload map[string]interface{}) {
	e := &event.TaskEvent{
		EventType: eventType,
		TaskID:    taskID,
		BatchID:   batchID,
		Payload:   marshalPayload(payload),
	}

	go func() {
		archiveCtx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := r.repo.CreateEvent(archiveCtx, e); err != nil {
			logger.LogSystemEvent("event_recorder", "mysql_archive_failed", err.Error(), logrus.WarnLevel, map[string]interface{}{
				"event_type": eventType,
				"task_id":    taskID,
			})
		}
	}()
}

// MultiEventRecorder 组合事件记录器
// 依次通知所有下游记录器
type MultiEventRecorder struct {
	recorders []EventRecorder
}

// NewMultiEventRecorder 创建组合事件记录器实例
func NewMultiEventRecorder(recorders ...EventRecorder) *MultiEventRecorder {
	rs := make([]EventRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return &MultiEventRecorder{recorders: rs}
}

// Record 分发事件到全部记录器
func (r *MultiEventRecorder) Record(ctx context.Context, eventType, taskID, batchID string, payload map[string]interface{}) {
	for _, recorder := range r.recorders {
		recorder.Record(ctx, eventType, taskID, batchID, payload)
	}
}

// NoopEventRecorder 空事件记录器(测试用)
type NoopEventRecorder struct{}

// Record 丢弃事件
func (r *NoopEventRecorder) Record(ctx context.Context, eventType, taskID, batchID string, payload map[string]interface{}) {
}
