/**
 * 测试:任务引擎HTTP接口
 * @author: sun977
 * @date: 2026.08.25
 * @description: 覆盖批次提交、查询、延迟触发、取消、反思追加与能力列表接口
 * @func:
 */
package task

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neotask/internal/model"
	"neotask/internal/repo/memory"
	"neotask/internal/service/engine"
)

// echoCapability 测试用能力:回显参数或按需失败
type echoCapability struct {
	name string
	fail bool
}

func (c *echoCapability) Name() string        { return c.name }
func (c *echoCapability) Description() string { return "test capability " + c.name }

func (c *echoCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	if c.fail {
		return nil, errors.New("echo failure")
	}
	return map[string]interface{}{"echo": c.name}, nil
}

// captureCapability 测试用能力:记录每次调用收到的参数快照
type captureCapability struct {
	name string
	mu   sync.Mutex
	seen []map[string]interface{}
}

func (c *captureCapability) Name() string        { return c.name }
func (c *captureCapability) Description() string { return "test capability " + c.name }

func (c *captureCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	snapshot := make(map[string]interface{}, len(params))
	for k, v := range params {
		snapshot[k] = v
	}
	c.mu.Lock()
	c.seen = append(c.seen, snapshot)
	c.mu.Unlock()
	return map[string]interface{}{"echo": c.name}, nil
}

func (c *captureCapability) observed() []map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]interface{}(nil), c.seen...)
}

// newTestRouter 构造一个带真实服务链路的测试路由
// 不传能力时默认注册echo/boom两个测试能力
func newTestRouter(t *testing.T, caps ...engine.Capability) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if len(caps) == 0 {
		caps = []engine.Capability{
			&echoCapability{name: "echo"},
			&echoCapability{name: "boom", fail: true},
		}
	}

	capRegistry := engine.NewCapabilityRegistry()
	for _, cap := range caps {
		if err := capRegistry.Register(cap); err != nil {
			t.Fatalf("register capability: %v", err)
		}
	}

	registry := memory.NewTaskRegistry()
	dispatcher := engine.NewActionDispatcher(capRegistry)
	executor := engine.NewTaskExecutor(registry, dispatcher, nil, 4)
	ingestor := engine.NewTaskIngestor("system")
	service := engine.NewTaskService(ingestor, executor, registry, nil)

	handler := NewTaskHandler(service)

	r := gin.New()
	v1 := r.Group("/api/v1")
	tasks := v1.Group("/tasks")
	{
		tasks.POST("/batch", handler.SubmitBatch)
		tasks.GET("", handler.ListTasks)
		tasks.GET("/summary", handler.GetSummary)
		tasks.GET("/assignee/:name", handler.ListTasksByAssignee)
		tasks.GET("/:task_id", handler.GetTask)
		tasks.POST("/:task_id/execute", handler.ExecuteTask)
		tasks.POST("/:task_id/cancel", handler.CancelTask)
		tasks.POST("/:task_id/reflections", handler.AppendReflection)
	}
	v1.GET("/capabilities", handler.ListCapabilities)
	return r
}

// doJSON 发送JSON请求并解析标准响应
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, model.APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestSubmitBatchImmediate(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/tasks/batch", map[string]interface{}{
		"tasks": []map[string]interface{}{
			{"action": "echo"},
			{"action": []string{"echo", "boom"}},
			{"action": 42},
		},
		"assigned_by":         "tester",
		"execute_immediately": true,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var summary struct {
		BatchID      string `json:"batch_id"`
		TotalTasks   int    `json:"total_tasks"`
		Status       string `json:"status"`
		AssignedBy   string `json:"assigned_by"`
		CreatedTasks []struct {
			TaskID string `json:"task_id"`
			Status string `json:"status"`
		} `json:"created_tasks"`
		FailedTasks []struct {
			Index int    `json:"index"`
			Error string `json:"error"`
		} `json:"failed_tasks"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))

	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, 2, summary.TotalTasks)
	assert.Equal(t, "partial", summary.Status)
	assert.Equal(t, "tester", summary.AssignedBy)
	require.Len(t, summary.CreatedTasks, 2)
	require.Len(t, summary.FailedTasks, 1)
	assert.Equal(t, 2, summary.FailedTasks[0].Index)

	// 第一个任务全部成功,第二个包含失败动作
	assert.Equal(t, "completed", summary.CreatedTasks[0].Status)
	assert.Equal(t, "error", summary.CreatedTasks[1].Status)

	// 立即执行后任务进入已完成视图
	_, listResp := doJSON(t, r, http.MethodGet, "/api/v1/tasks?view=completed", nil)
	listData, err := json.Marshal(listResp.Data)
	require.NoError(t, err)
	var listing struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(listData, &listing))
	assert.Equal(t, 2, listing.Count)
}

func TestSubmitBatchTopLevelParamsReachCapabilities(t *testing.T) {
	reflectCap := &captureCapability{name: "reflect"}
	evolveCap := &captureCapability{name: "evolve"}
	r := newTestRouter(t, reflectCap, evolveCap)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/tasks/batch", map[string]interface{}{
		"tasks": []map[string]interface{}{
			{"action": []string{"reflect", "evolve"}, "question": "Q"},
		},
		"execute_immediately": true,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)

	// action/is_parallel之外的顶层键作为自由格式参数传给每个动作
	reflectSeen := reflectCap.observed()
	require.Len(t, reflectSeen, 1)
	assert.Equal(t, "Q", reflectSeen[0]["question"])

	evolveSeen := evolveCap.observed()
	require.Len(t, evolveSeen, 1)
	assert.Equal(t, "Q", evolveSeen[0]["question"])

	// 顺序执行时后续动作同时还能拿到前序成功输出的context快照
	chained, ok := evolveSeen[0]["context"].(map[string]interface{})
	require.True(t, ok, "evolve should receive the chained context snapshot")
	assert.Contains(t, chained, "reflect")
}

func TestSubmitBatchEmptyRejected(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/tasks/batch", map[string]interface{}{
		"tasks": []map[string]interface{}{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "failed", resp.Status)
}

func TestSubmitBatchInvalidBody(t *testing.T) {
	r := newTestRouter(t)
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/batch", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// submitDeferred 提交一个延迟执行的单任务批次,返回任务ID
func submitDeferred(t *testing.T, r *gin.Engine, action string) string {
	t.Helper()

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/tasks/batch", map[string]interface{}{
		"tasks":               []map[string]interface{}{{"action": action}},
		"execute_immediately": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var summary struct {
		CreatedTasks []struct {
			TaskID string `json:"task_id"`
			Status string `json:"status"`
		} `json:"created_tasks"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))
	require.Len(t, summary.CreatedTasks, 1)
	require.Equal(t, "received", summary.CreatedTasks[0].Status)
	return summary.CreatedTasks[0].TaskID
}

func TestDeferredExecuteFlow(t *testing.T) {
	r := newTestRouter(t)
	taskID := submitDeferred(t, r, "echo")

	// 延迟任务可以查询到,处于received状态
	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var fetched struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(data, &fetched))
	assert.Equal(t, "received", fetched.Status)

	// 显式触发执行
	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/execute", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)
	var result struct {
		Status          string `json:"status"`
		SuccessfulCount int    `json:"successful_count"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, 1, result.SuccessfulCount)

	// 终态任务不允许再次触发
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/execute", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelTask(t *testing.T) {
	r := newTestRouter(t)
	taskID := submitDeferred(t, r, "echo")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var cancelled struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(data, &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)

	// 已取消的任务不允许再取消或执行
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/execute", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetTaskNotFound(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/tasks/task_missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "failed", resp.Status)
}

func TestListTasksInvalidView(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/tasks?view=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTasksByAssigneeAndSummary(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 3; i++ {
		_, _ = doJSON(t, r, http.MethodPost, "/api/v1/tasks/batch", map[string]interface{}{
			"tasks":       []map[string]interface{}{{"action": "echo"}},
			"assigned_by": fmt.Sprintf("worker-%d", i%2),
		})
	}

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/tasks/assignee/worker-0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var listing struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(data, &listing))
	assert.Equal(t, 2, listing.Count)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/tasks/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)
	var summary struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Active)
}

func TestAppendReflection(t *testing.T) {
	r := newTestRouter(t)
	taskID := submitDeferred(t, r, "echo")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/reflections",
		map[string]interface{}{"text": "first pass looks fine"})
	require.Equal(t, http.StatusOK, w.Code)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var updated struct {
		Reflections []struct {
			Text string `json:"text"`
		} `json:"reflections"`
		IsReflectionFinal bool `json:"is_reflection_final"`
	}
	require.NoError(t, json.Unmarshal(data, &updated))
	require.Len(t, updated.Reflections, 1)
	assert.False(t, updated.IsReflectionFinal)

	// 空文本被绑定校验拒绝
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/reflections",
		map[string]interface{}{"text": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 终结后继续追加返回冲突
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/reflections",
		map[string]interface{}{"text": "closing note", "is_final": true})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/tasks/"+taskID+"/reflections",
		map[string]interface{}{"text": "too late"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListCapabilities(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/capabilities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var listing struct {
		Count        int      `json:"count"`
		Capabilities []string `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(data, &listing))
	assert.Equal(t, 2, listing.Count)
	assert.Equal(t, []string{"boom", "echo"}, listing.Capabilities)
}
