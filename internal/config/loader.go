package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置文件
// configPath: 配置文件路径，如果为空则使用默认路径
// env: 环境标识，支持 development, test, production
func LoadConfig(configPath, env string) (*Config, error) {
	// 设置默认环境
	if env == "" {
		env = getEnvFromEnvironment()
	}

	// 创建viper实例
	v := viper.New()

	// 设置配置文件类型
	v.SetConfigType("yaml")

	// 设置配置文件路径
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	// 根据环境选择配置文件
	configFile := getConfigFileName(configPath, env)
	v.SetConfigFile(configFile)

	// 设置环境变量前缀
	v.SetEnvPrefix("NEOTASK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 绑定环境变量
	bindEnvironmentVariables(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	// 解析配置到结构体
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEngineDefaults(&config)

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 设置全局配置
	GlobalConfig = &config

	return &config, nil
}

// getEnvFromEnvironment 从环境变量获取环境标识
func getEnvFromEnvironment() string {
	env := os.Getenv("NEOTASK_ENV")
	if env == "" {
		env = os.Getenv("GO_ENV")
	}
	if env == "" {
		env = "development" // 默认开发环境
	}
	return env
}

// getDefaultConfigPath 获取默认配置文件路径
func getDefaultConfigPath() string {
	// 尝试从环境变量获取配置路径
	if configPath := os.Getenv("NEOTASK_CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// 使用默认路径
	return "configs"
}

// getConfigFileName 根据环境获取配置文件名
func getConfigFileName(configPath, env string) string {
	var configFile string

	switch env {
	case "production", "prod":
		configFile = filepath.Join(configPath, "config.prod.yaml")
	case "test", "testing":
		configFile = filepath.Join(configPath, "config.test.yaml")
	default:
		configFile = filepath.Join(configPath, "config.yaml")
	}

	// 检查文件是否存在，如果不存在则使用默认配置文件
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		defaultConfig := filepath.Join(configPath, "config.yaml")
		if _, err := os.Stat(defaultConfig); err == nil {
			return defaultConfig
		}
	}

	return configFile
}

// bindEnvironmentVariables 绑定环境变量
func bindEnvironmentVariables(v *viper.Viper) {
	// 数据库配置
	v.BindEnv("database.mysql.host", "NEOTASK_MYSQL_HOST")
	v.BindEnv("database.mysql.port", "NEOTASK_MYSQL_PORT")
	v.BindEnv("database.mysql.username", "NEOTASK_MYSQL_USERNAME")
	v.BindEnv("database.mysql.password", "NEOTASK_MYSQL_PASSWORD")
	v.BindEnv("database.mysql.database", "NEOTASK_MYSQL_DATABASE")

	v.BindEnv("database.redis.host", "NEOTASK_REDIS_HOST")
	v.BindEnv("database.redis.port", "NEOTASK_REDIS_PORT")
	v.BindEnv("database.redis.password", "NEOTASK_REDIS_PASSWORD")
	v.BindEnv("database.redis.database", "NEOTASK_REDIS_DATABASE")

	// 服务器配置
	v.BindEnv("server.host", "NEOTASK_SERVER_HOST")
	v.BindEnv("server.port", "NEOTASK_SERVER_PORT")
	v.BindEnv("server.mode", "NEOTASK_SERVER_MODE")

	// 引擎配置
	v.BindEnv("engine.max_parallel_actions", "NEOTASK_ENGINE_MAX_PARALLEL_ACTIONS")
	v.BindEnv("engine.default_assigned_by", "NEOTASK_ENGINE_DEFAULT_ASSIGNED_BY")
	v.BindEnv("engine.event_sinks.redis", "NEOTASK_ENGINE_EVENT_SINKS_REDIS")
	v.BindEnv("engine.event_sinks.mysql", "NEOTASK_ENGINE_EVENT_SINKS_MYSQL")
	v.BindEnv("engine.capability.workspace_dir", "NEOTASK_ENGINE_CAPABILITY_WORKSPACE_DIR")

	// 应用配置
	v.BindEnv("app.environment", "NEOTASK_APP_ENVIRONMENT")
	v.BindEnv("app.debug", "NEOTASK_APP_DEBUG")
}

// applyEngineDefaults 填充引擎配置默认值
func applyEngineDefaults(config *Config) {
	if config == nil {
		return
	}

	if config.Engine.MaxParallelActions <= 0 {
		config.Engine.MaxParallelActions = 8
	}
	if strings.TrimSpace(config.Engine.DefaultAssignedBy) == "" {
		config.Engine.DefaultAssignedBy = "system"
	}
	if strings.TrimSpace(config.Engine.Capability.WorkspaceDir) == "" {
		config.Engine.Capability.WorkspaceDir = filepath.Join("data", "workspace")
	}
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	// 验证服务器配置
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Server.Mode != "debug" && config.Server.Mode != "release" && config.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s", config.Server.Mode)
	}

	// 验证数据库配置（仅在对应事件落地开启时要求）
	if config.Engine.EventSinks.MySQL {
		if config.Database.MySQL.Host == "" {
			return fmt.Errorf("mysql host is required when mysql event sink is enabled")
		}
		if config.Database.MySQL.Database == "" {
			return fmt.Errorf("mysql database name is required when mysql event sink is enabled")
		}
	}

	if config.Engine.EventSinks.Redis && config.Database.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis event sink is enabled")
	}

	// 验证日志配置
	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, config.Log.Level) {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, config.Log.Format) {
		return fmt.Errorf("invalid log format: %s", config.Log.Format)
	}

	validLogOutputs := []string{"stdout", "stderr", "file"}
	if !contains(validLogOutputs, config.Log.Output) {
		return fmt.Errorf("invalid log output: %s", config.Log.Output)
	}

	// 如果日志输出到文件，验证文件路径
	if config.Log.Output == "file" && config.Log.FilePath == "" {
		return fmt.Errorf("log file path is required when output is file")
	}

	return nil
}

// contains 检查切片是否包含指定元素
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return GlobalConfig
}

// MustLoadConfig 加载配置，如果失败则panic
func MustLoadConfig(configPath, env string) *Config {
	config, err := LoadConfig(configPath, env)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	return config
}

// ReloadConfig 重新加载配置
func ReloadConfig() error {
	if GlobalConfig == nil {
		return fmt.Errorf("global config is not initialized")
	}

	// 重新加载配置
	config, err := LoadConfig("", "")
	if err != nil {
		return err
	}

	GlobalConfig = config
	return nil
}

// GetEnv 获取当前环境
func GetEnv() string {
	if GlobalConfig != nil {
		return GlobalConfig.App.Environment
	}
	return getEnvFromEnvironment()
}
