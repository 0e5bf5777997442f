/**
 * 路由:路由管理器
 * @author: sun977
 * @date: 2026.08.25
 * @description: 路由管理器，包含Router结构体、NewRouter函数和SetupRoutes主函数
 * @func:
 */
package router

import (
	"neotask/internal/app/engine/middleware"
	"neotask/internal/config"
	taskHandler "neotask/internal/handler/task"
	"neotask/internal/service/engine"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器
type Router struct {
	config            *config.Config
	engine            *gin.Engine
	middlewareManager *middleware.MiddlewareManager
	taskHandler       *taskHandler.TaskHandler
}

// NewRouter 创建路由管理器实例
func NewRouter(cfg *config.Config, service *engine.TaskService) *Router {
	// 设置gin运行模式
	gin.SetMode(cfg.Server.Mode)

	return &Router{
		config:            cfg,
		engine:            gin.New(),
		middlewareManager: middleware.NewMiddlewareManager(cfg),
		taskHandler:       taskHandler.NewTaskHandler(service),
	}
}

// GetEngine 获取Gin引擎实例
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// SetupRoutes 装配全部路由
// 1. 全局中间件
// 2. 健康检查路由(/api/health 等)
// 3. 任务引擎业务路由(/api/v1/tasks)
func (r *Router) SetupRoutes() {
	// 全局中间件
	r.middlewareManager.SetupGlobalMiddleware(r.engine)

	api := r.engine.Group("/api")
	r.setupHealthRoutes(api)

	v1 := api.Group("/v1")
	r.setupTaskRoutes(v1)
}
