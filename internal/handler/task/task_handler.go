/**
 * 任务处理层:任务引擎HTTP接口
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务批次提交、查询、触发、取消、反思追加的HTTP请求处理
 * @func: TaskHandler结构体及各路由处理函数
 */
package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"neotask/internal/model"
	taskmodel "neotask/internal/model/task"
	"neotask/internal/pkg/logger"
	"neotask/internal/pkg/utils"
	"neotask/internal/service/engine"
)

// TaskHandler 处理任务引擎相关的HTTP请求
type TaskHandler struct {
	service *engine.TaskService
}

// NewTaskHandler 创建TaskHandler实例
func NewTaskHandler(service *engine.TaskService) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

// errorStatusCode 把业务错误映射为HTTP状态码
func errorStatusCode(err error) int {
	switch {
	case taskmodel.IsValidationError(err), errors.Is(err, taskmodel.ErrEmptyBatch):
		return http.StatusBadRequest
	case errors.Is(err, taskmodel.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, taskmodel.ErrInvalidTransition),
		errors.Is(err, taskmodel.ErrTaskNotExecutable),
		errors.Is(err, taskmodel.ErrReflectionFinalized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SubmitBatch 提交任务批次接口
// 路由: POST /api/v1/tasks/batch
func (h *TaskHandler) SubmitBatch(c *gin.Context) {
	clientIP := utils.GetClientIP(c)
	requestID := c.GetHeader("X-Request-ID")

	var req taskmodel.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.LogBusinessOperation("submit_batch", clientIP, requestID, "failed",
			"invalid request body", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "failed",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	summary, err := h.service.ProcessBatch(c.Request.Context(), &req)
	if err != nil {
		logger.LogBusinessOperation("submit_batch", clientIP, requestID, "failed",
			"batch processing rejected", map[string]interface{}{"error": err.Error()})
		c.JSON(errorStatusCode(err), model.APIResponse{
			Code:    errorStatusCode(err),
			Status:  "failed",
			Message: "Failed to process batch",
			Error:   err.Error(),
		})
		return
	}

	logger.LogBusinessOperation("submit_batch", clientIP, requestID, "success",
		"batch processed", map[string]interface{}{
			"batch_id":     summary.BatchID,
			"total_tasks":  summary.TotalTasks,
			"failed_tasks": len(summary.FailedTasks),
			"batch_status": summary.Status,
		})
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Batch processed successfully",
		Data:    summary,
	})
}

// GetTask 查询单个任务接口
// 路由: GET /api/v1/tasks/:task_id
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID := c.Param("task_id")

	t, err := h.service.GetTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(errorStatusCode(err), model.APIResponse{
			Code:    errorStatusCode(err),
			Status:  "failed",
			Message: "Failed to get task",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Task fetched successfully",
		Data:    t,
	})
}

// ListTasks 任务列表接口
// 路由: GET /api/v1/tasks?view=active|completed|all (默认active)
func (h *TaskHandler) ListTasks(c *gin.Context) {
	view := c.DefaultQuery("view", "active")

	var tasks []*taskmodel.Task
	switch view {
	case "active":
		tasks = h.service.ListActiveTasks(c.Request.Context())
	case "completed":
		tasks = h.service.ListCompletedTasks(c.Request.Context())
	case "all":
		tasks = append(h.service.ListActiveTasks(c.Request.Context()),
			h.service.ListCompletedTasks(c.Request.Context())...)
	default:
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "failed",
			Message: "Invalid view parameter",
			Error:   "view must be one of: active, completed, all",
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Tasks listed successfully",
		Data: map[string]interface{}{
			"view":  view,
			"count": len(tasks),
			"tasks": tasks,
		},
	})
}

// ListTasksByAssignee 按提交者查询任务接口
// 路由: GET /api/v1/tasks/assignee/:name
func (h *TaskHandler) ListTasksByAssignee(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "failed",
			Message: "Assignee name is required",
		})
		return
	}

	tasks := h.service.ListTasksByAssignee(c.Request.Context(), name)
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Tasks listed successfully",
		Data: map[string]interface{}{
			"assigned_by": name,
			"count":       len(tasks),
			"tasks":       tasks,
		},
	})
}

// GetSummary 登记表状态汇总接口
// 路由: GET /api/v1/tasks/summary
func (h *TaskHandler) GetSummary(c *gin.Context) {
	summary := h.service.StatusSummary(c.Request.Context())
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Summary fetched successfully",
		Data:    summary,
	})
}

// ExecuteTask 显式触发延迟任务接口
// 路由: POST /api/v1/tasks/:task_id/execute
func (h *TaskHandler) ExecuteTask(c *gin.Context) {
	clientIP := utils.GetClientIP(c)
	requestID := c.GetHeader("X-Request-ID")
	taskID := c.Param("task_id")

	result, err := h.service.ExecuteTask(c.Request.Context(), taskID)
	if err != nil {
		logger.LogBusinessOperation("execute_task", clientIP, requestID, "failed",
			"task execution rejected", map[string]interface{}{
				"task_id": taskID,
				"error":   err.Error(),
			})
		c.JSON(errorStatusCode(err), model.APIResponse{
			Code:    errorStatusCode(err),
			Status:  "failed",
			Message: "Failed to execute task",
			Error:   err.Error(),
		})
		return
	}

	logger.LogBusinessOperation("execute_task", clientIP, requestID, "success",
		"task executed", map[string]interface{}{
			"task_id":     taskID,
			"task_status": result.Status,
		})
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Task executed successfully",
		Data:    result,
	})
}

// CancelTask 取消任务接口
// 路由: POST /api/v1/tasks/:task_id/cancel
func (h *TaskHandler) CancelTask(c *gin.Context) {
	clientIP := utils.GetClientIP(c)
	requestID := c.GetHeader("X-Request-ID")
	taskID := c.Param("task_id")

	t, err := h.service.CancelTask(c.Request.Context(), taskID)
	if err != nil {
		logger.LogBusinessOperation("cancel_task", clientIP, requestID, "failed",
			"task cancellation rejected", map[string]interface{}{
				"task_id": taskID,
				"error":   err.Error(),
			})
		c.JSON(errorStatusCode(err), model.APIResponse{
			Code:    errorStatusCode(err),
			Status:  "failed",
			Message: "Failed to cancel task",
			Error:   err.Error(),
		})
		return
	}

	logger.LogBusinessOperation("cancel_task", clientIP, requestID, "success",
		"task cancelled", map[string]interface{}{"task_id": taskID})
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Task cancelled successfully",
		Data:    t,
	})
}

// appendReflectionRequest 反思追加请求体
type appendReflectionRequest struct {
	Text    string `json:"text" binding:"required"`
	IsFinal bool   `json:"is_final"`
}

// AppendReflection 追加反思接口
// 路由: POST /api/v1/tasks/:task_id/reflections
func (h *TaskHandler) AppendReflection(c *gin.Context) {
	taskID := c.Param("task_id")

	var req appendReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "failed",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	t, err := h.service.AppendReflection(c.Request.Context(), taskID, req.Text, req.IsFinal)
	if err != nil {
		c.JSON(errorStatusCode(err), model.APIResponse{
			Code:    errorStatusCode(err),
			Status:  "failed",
			Message: "Failed to append reflection",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Reflection appended successfully",
		Data:    t,
	})
}

// ListCapabilities 能力列表接口
// 路由: GET /api/v1/capabilities
func (h *TaskHandler) ListCapabilities(c *gin.Context) {
	names := h.service.Capabilities()
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Capabilities listed successfully",
		Data: map[string]interface{}{
			"count":        len(names),
			"capabilities": names,
		},
	})
}
