package event

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"neotask/internal/model/event"
)

// newTestDB 使用内存SQLite模拟MySQL归档库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestEventRepositoryCreateAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t))

	events := []*event.TaskEvent{
		{EventType: event.EventTaskReceived, TaskID: "task_1", BatchID: "batch_1"},
		{EventType: event.EventTaskStarted, TaskID: "task_1", BatchID: "batch_1"},
		{EventType: event.EventActionCompleted, TaskID: "task_1", BatchID: "batch_1", Payload: `{"action":"reflect"}`},
		{EventType: event.EventTaskCompleted, TaskID: "task_1", BatchID: "batch_1"},
		{EventType: event.EventTaskReceived, TaskID: "task_2", BatchID: "batch_2"},
	}
	for _, e := range events {
		require.NoError(t, repo.CreateEvent(ctx, e))
	}

	byTask, err := repo.GetEventsByTaskID(ctx, "task_1")
	require.NoError(t, err)
	assert.Len(t, byTask, 4)
	// 按写入顺序返回
	assert.Equal(t, event.EventTaskReceived, byTask[0].EventType)
	assert.Equal(t, event.EventTaskCompleted, byTask[3].EventType)

	byBatch, err := repo.GetEventsByBatchID(ctx, "batch_2")
	require.NoError(t, err)
	assert.Len(t, byBatch, 1)
	assert.Equal(t, "task_2", byBatch[0].TaskID)

	count, err := repo.CountEventsByType(ctx, event.EventTaskReceived)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	empty, err := repo.GetEventsByTaskID(ctx, "task_missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
