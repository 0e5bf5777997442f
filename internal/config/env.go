package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvManager 环境变量管理器
type EnvManager struct {
	prefix string // 环境变量前缀
}

// NewEnvManager 创建环境变量管理器
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "NEOTASK"
	}
	return &EnvManager{
		prefix: prefix,
	}
}

// GetString 获取字符串类型环境变量
func (em *EnvManager) GetString(key, defaultValue string) string {
	value := os.Getenv(em.buildEnvKey(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// GetInt 获取整数类型环境变量
func (em *EnvManager) GetInt(key string, defaultValue int) int {
	value := os.Getenv(em.buildEnvKey(key))
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// GetBool 获取布尔类型环境变量
func (em *EnvManager) GetBool(key string, defaultValue bool) bool {
	value := os.Getenv(em.buildEnvKey(key))
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

// GetDuration 获取时间间隔类型环境变量
func (em *EnvManager) GetDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(em.buildEnvKey(key))
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// GetStringSlice 获取字符串切片类型环境变量（逗号分隔）
func (em *EnvManager) GetStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(em.buildEnvKey(key))
	if value == "" {
		return defaultValue
	}

	// 按逗号分割并去除空白
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

// SetString 设置字符串类型环境变量
func (em *EnvManager) SetString(key, value string) error {
	return os.Setenv(em.buildEnvKey(key), value)
}

// SetInt 设置整数类型环境变量
func (em *EnvManager) SetInt(key string, value int) error {
	return os.Setenv(em.buildEnvKey(key), strconv.Itoa(value))
}

// SetBool 设置布尔类型环境变量
func (em *EnvManager) SetBool(key string, value bool) error {
	return os.Setenv(em.buildEnvKey(key), strconv.FormatBool(value))
}

// SetDuration 设置时间间隔类型环境变量
func (em *EnvManager) SetDuration(key string, value time.Duration) error {
	return os.Setenv(em.buildEnvKey(key), value.String())
}

// SetStringSlice 设置字符串切片类型环境变量（逗号分隔）
func (em *EnvManager) SetStringSlice(key string, value []string) error {
	return os.Setenv(em.buildEnvKey(key), strings.Join(value, ","))
}

// Exists 检查环境变量是否存在
func (em *EnvManager) Exists(key string) bool {
	_, exists := os.LookupEnv(em.buildEnvKey(key))
	return exists
}

// Unset 删除环境变量
func (em *EnvManager) Unset(key string) error {
	return os.Unsetenv(em.buildEnvKey(key))
}

// buildEnvKey 构建带前缀的环境变量键名
func (em *EnvManager) buildEnvKey(key string) string {
	return fmt.Sprintf("%s_%s", em.prefix, strings.ToUpper(key))
}
