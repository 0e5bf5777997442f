/**
 * 应用:任务引擎应用装配
 * @author: sun977
 * @date: 2026.08.25
 * @description: 加载配置、初始化日志/存储/能力/服务/路由,并管理应用生命周期
 * @func: App结构体、NewApp、Close
 */
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	approuter "neotask/internal/app/engine/router"
	"neotask/internal/config"
	"neotask/internal/pkg/database"
	"neotask/internal/pkg/logger"
	"neotask/internal/repo/memory"
	mysqlevent "neotask/internal/repo/mysql/event"
	redisrepo "neotask/internal/repo/redis"
	"neotask/internal/service/capability"
	engineService "neotask/internal/service/engine"

	goredis "github.com/go-redis/redis/v8"
)

// App 应用程序结构体
type App struct {
	config        *config.Config
	router        *approuter.Router
	service       *engineService.TaskService
	configWatcher *config.ConfigWatcher
	db            *gorm.DB
	redisClient   *goredis.Client
}

// NewApp 创建新的应用程序实例
// configPath/env 为空时使用默认配置路径与环境变量推断
func NewApp(configPath, env string) (*App, error) {
	// 1. 加载配置
	cfg, err := config.LoadConfig(configPath, env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. 初始化日志
	loggerManager, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	app := &App{config: cfg}

	// 3. 装配事件记录器(日志始终开启,Redis/MySQL按配置开关)
	recorders := []engineService.EventRecorder{engineService.NewLogEventRecorder()}

	if cfg.Engine.EventSinks.Redis {
		redisClient, err := database.NewRedisConnection(&cfg.Database.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		app.redisClient = redisClient
		recorders = append(recorders, engineService.NewRedisEventRecorder(redisrepo.NewEventRepository(redisClient)))
	}

	if cfg.Engine.EventSinks.MySQL {
		db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		app.db = db
		if err := mysqlevent.AutoMigrate(db); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to migrate event table: %w", err)
		}
		recorders = append(recorders, engineService.NewMySQLEventRecorder(mysqlevent.NewEventRepository(db)))
	}

	recorder := engineService.NewMultiEventRecorder(recorders...)

	// 4. 装配能力注册表与内置能力
	capRegistry := engineService.NewCapabilityRegistry()
	if err := capability.RegisterBuiltins(capRegistry, &cfg.Engine.Capability); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to register capabilities: %w", err)
	}

	// 5. 装配任务服务
	taskRegistry := memory.NewTaskRegistry()
	dispatcher := engineService.NewActionDispatcher(capRegistry)
	executor := engineService.NewTaskExecutor(taskRegistry, dispatcher, recorder, cfg.Engine.MaxParallelActions)
	ingestor := engineService.NewTaskIngestor(cfg.Engine.DefaultAssignedBy)
	app.service = engineService.NewTaskService(ingestor, executor, taskRegistry, recorder)

	// 6. 装配路由
	app.router = approuter.NewRouter(cfg, app.service)
	app.router.SetupRoutes()

	// 7. 启动配置热更新监听(日志配置支持运行时调整)
	watcher, err := config.NewConfigWatcher(configPath, env)
	if err != nil {
		logger.Warnf("config watcher unavailable: %v", err)
	} else {
		watcher.AddCallback(func(oldCfg, newCfg *config.Config) error {
			return loggerManager.UpdateConfig(&newCfg.Log)
		})
		if err := watcher.Start(); err != nil {
			logger.Warnf("failed to start config watcher: %v", err)
		} else {
			app.configWatcher = watcher
		}
	}

	logger.LogSystemEvent("app", "startup", "task engine assembled", logrus.InfoLevel, map[string]interface{}{
		"capabilities": app.service.Capabilities(),
		"redis_sink":   cfg.Engine.EventSinks.Redis,
		"mysql_sink":   cfg.Engine.EventSinks.MySQL,
	})

	return app, nil
}

// GetConfig 获取应用配置
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetRouter 获取路由器实例
func (a *App) GetRouter() *approuter.Router {
	return a.router
}

// GetService 获取任务服务实例
func (a *App) GetService() *engineService.TaskService {
	return a.service
}

// Close 释放应用持有的资源
func (a *App) Close() error {
	if a.configWatcher != nil {
		if err := a.configWatcher.Stop(); err != nil {
			logger.Warnf("failed to stop config watcher: %v", err)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logger.Warnf("failed to close redis client: %v", err)
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warnf("failed to close mysql connection: %v", err)
			}
		}
	}
	return nil
}
