package capability

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neotask/internal/config"
	"neotask/internal/service/engine"
)

func TestRegisterBuiltins(t *testing.T) {
	registry := engine.NewCapabilityRegistry()
	cfg := &config.CapabilityConfig{WorkspaceDir: t.TempDir()}

	require.NoError(t, RegisterBuiltins(registry, cfg))

	want := []string{"dir_search", "evolve", "file_read", "file_write", "health_check", "reflect", "sleep"}
	assert.Equal(t, want, registry.Names())

	// 重复注册应失败
	assert.Error(t, RegisterBuiltins(registry, cfg))
}

func TestReflectCapability(t *testing.T) {
	c := NewReflectCapability()

	out, err := c.Handle(context.Background(), map[string]interface{}{
		"topic":  "batch review",
		"input1": "a",
		"input2": "b",
	})
	require.NoError(t, err)

	result, ok := out.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "batch review", result["topic"])
	assert.Equal(t, []string{"input1", "input2"}, result["observed_keys"])
	assert.Contains(t, result["reflection"], "batch review")

	// 无参数也能反思
	out, err = c.Handle(context.Background(), nil)
	require.NoError(t, err)
	result = out.(map[string]interface{})
	assert.Equal(t, "current task", result["topic"])
}

func TestEvolveCapability(t *testing.T) {
	c := NewEvolveCapability()

	out, err := c.Handle(context.Background(), map[string]interface{}{"directive": "improve throughput"})
	require.NoError(t, err)

	result := out.(map[string]interface{})
	assert.Equal(t, "improve throughput", result["directive"])
	questions := result["questions"].([]string)
	assert.Len(t, questions, 3)
	for _, q := range questions {
		assert.Contains(t, q, "improve throughput")
	}

	// 缺少指令参数
	_, err = c.Handle(context.Background(), nil)
	assert.Error(t, err)
	_, err = c.Handle(context.Background(), map[string]interface{}{"directive": "  "})
	assert.Error(t, err)
}

func TestFileCapabilities(t *testing.T) {
	workspace := t.TempDir()
	writer := NewFileWriteCapability(workspace)
	reader := NewFileReadCapability(workspace)

	// 写入(自动创建子目录)
	out, err := writer.Handle(context.Background(), map[string]interface{}{
		"path":    "notes/todo.txt",
		"content": "hello neotask",
	})
	require.NoError(t, err)
	assert.Equal(t, 13, out.(map[string]interface{})["written"])

	// 读取
	out, err = reader.Handle(context.Background(), map[string]interface{}{"path": "notes/todo.txt"})
	require.NoError(t, err)
	result := out.(map[string]interface{})
	assert.Equal(t, "hello neotask", result["content"])
	assert.Equal(t, 13, result["size"])

	// 目录穿越被拒绝
	_, err = reader.Handle(context.Background(), map[string]interface{}{"path": "../outside.txt"})
	assert.Error(t, err)
	_, err = writer.Handle(context.Background(), map[string]interface{}{"path": "/etc/evil", "content": "x"})
	assert.Error(t, err)

	// 缺少参数
	_, err = reader.Handle(context.Background(), nil)
	assert.Error(t, err)
	_, err = writer.Handle(context.Background(), map[string]interface{}{"path": "a.txt"})
	assert.Error(t, err)

	// 读取不存在的文件
	_, err = reader.Handle(context.Background(), map[string]interface{}{"path": "missing.txt"})
	assert.Error(t, err)
}

func TestDirSearchCapability(t *testing.T) {
	workspace := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "sub"), 0755))
	for _, name := range []string{"a.log", "b.log", "sub/c.log", "sub/d.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(workspace, name), []byte("x"), 0644))
	}

	c := NewDirSearchCapability(workspace)

	out, err := c.Handle(context.Background(), map[string]interface{}{"pattern": "*.log"})
	require.NoError(t, err)
	result := out.(map[string]interface{})
	assert.Equal(t, 3, result["count"])
	assert.ElementsMatch(t, []string{"a.log", "b.log", "sub/c.log"}, result["matches"])

	// 默认模式匹配所有文件
	out, err = c.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, out.(map[string]interface{})["count"])

	// 不存在的工作目录返回空结果
	empty := NewDirSearchCapability(filepath.Join(workspace, "nope"))
	out, err = empty.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.(map[string]interface{})["count"])
}

func TestSleepCapability(t *testing.T) {
	c := NewSleepCapability()

	start := time.Now()
	out, err := c.Handle(context.Background(), map[string]interface{}{"duration_ms": float64(50)})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, int64(50), out.(map[string]interface{})["slept_ms"])

	// 超出上限
	_, err = c.Handle(context.Background(), map[string]interface{}{"duration_ms": float64(60000)})
	assert.Error(t, err)

	// 负数
	_, err = c.Handle(context.Background(), map[string]interface{}{"duration_ms": float64(-1)})
	assert.Error(t, err)

	// 上下文取消提前返回
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Handle(ctx, map[string]interface{}{"duration_ms": float64(5000)})
	assert.Error(t, err)
}

func TestHealthCheckCapability(t *testing.T) {
	c := NewHealthCheckCapability()

	out, err := c.Handle(context.Background(), nil)
	require.NoError(t, err)

	result := out.(map[string]interface{})
	assert.Contains(t, result, "checked_at")
	// 至少内存指标在常规环境下可用
	if memInfo, ok := result["memory"].(map[string]interface{}); ok {
		assert.Greater(t, memInfo["total"], uint64(0))
	}
}
