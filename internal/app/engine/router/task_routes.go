/**
 * 路由:任务引擎路由
 * @author: sun977
 * @date: 2026.08.25
 * @description: 任务批次提交、查询、触发、取消、反思追加的路由注册
 * @func: setupTaskRoutes
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupTaskRoutes 设置任务引擎路由
func (r *Router) setupTaskRoutes(v1 *gin.RouterGroup) {
	tasks := v1.Group("/tasks")
	{
		// 批次提交
		tasks.POST("/batch", r.taskHandler.SubmitBatch)

		// 查询
		tasks.GET("", r.taskHandler.ListTasks)
		tasks.GET("/summary", r.taskHandler.GetSummary)
		tasks.GET("/assignee/:name", r.taskHandler.ListTasksByAssignee)
		tasks.GET("/:task_id", r.taskHandler.GetTask)

		// 延迟任务的显式触发与取消
		tasks.POST("/:task_id/execute", r.taskHandler.ExecuteTask)
		tasks.POST("/:task_id/cancel", r.taskHandler.CancelTask)

		// 反思追加
		tasks.POST("/:task_id/reflections", r.taskHandler.AppendReflection)
	}

	// 能力列表
	v1.GET("/capabilities", r.taskHandler.ListCapabilities)
}
