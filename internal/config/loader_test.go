/**
 * 测试:配置加载
 * @author: sun977
 * @date: 2026.08.25
 * @description: 覆盖配置加载、引擎默认值填充与校验规则
 * @func:
 */
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const baseConfigYAML = `
server:
  host: "127.0.0.1"
  port: 9000
  mode: "test"
  read_timeout: 30s
  write_timeout: 30s
  idle_timeout: 60s
  max_header_bytes: 1048576

database:
  mysql:
    host: ""
    port: 3306
    username: ""
    password: ""
    database: ""
    charset: "utf8mb4"
  redis:
    host: ""
    port: 6379
    password: ""
    database: 0

log:
  level: "info"
  format: "json"
  output: "stdout"
  file_path: ""

engine:
  max_parallel_actions: 0
  default_assigned_by: ""
  event_sinks:
    redis: false
    mysql: false
  capability:
    workspace_dir: ""

app:
  name: "neotask"
  version: "1.0.0"
  environment: "test"
`

// writeConfigDir 写入临时配置目录并返回路径
func writeConfigDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return dir
}

func TestLoadConfigAppliesEngineDefaults(t *testing.T) {
	dir := writeConfigDir(t, baseConfigYAML)

	cfg, err := LoadConfig(dir, "development")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Mode != "test" {
		t.Errorf("Server.Mode = %q, want test", cfg.Server.Mode)
	}

	// 引擎字段留空时回填默认值
	if cfg.Engine.MaxParallelActions != 8 {
		t.Errorf("Engine.MaxParallelActions = %d, want 8", cfg.Engine.MaxParallelActions)
	}
	if cfg.Engine.DefaultAssignedBy != "system" {
		t.Errorf("Engine.DefaultAssignedBy = %q, want system", cfg.Engine.DefaultAssignedBy)
	}
	if cfg.Engine.Capability.WorkspaceDir == "" {
		t.Error("Engine.Capability.WorkspaceDir should have a default value")
	}

	if cfg.Engine.EventSinks.Redis || cfg.Engine.EventSinks.MySQL {
		t.Error("event sinks should be disabled by default")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(dir, "development"); err == nil {
		t.Fatal("LoadConfig() should fail when config file does not exist")
	}
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8080
		cfg.Server.Mode = "release"
		cfg.Log.Level = "info"
		cfg.Log.Format = "json"
		cfg.Log.Output = "stdout"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(cfg *Config) { cfg.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid mode",
			mutate:  func(cfg *Config) { cfg.Server.Mode = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(cfg *Config) { cfg.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "file output requires path",
			mutate:  func(cfg *Config) { cfg.Log.Output = "file" },
			wantErr: true,
		},
		{
			name: "mysql sink requires host",
			mutate: func(cfg *Config) {
				cfg.Engine.EventSinks.MySQL = true
			},
			wantErr: true,
		},
		{
			name: "mysql sink with host and database",
			mutate: func(cfg *Config) {
				cfg.Engine.EventSinks.MySQL = true
				cfg.Database.MySQL.Host = "127.0.0.1"
				cfg.Database.MySQL.Database = "neotask"
			},
			wantErr: false,
		},
		{
			name: "redis sink requires host",
			mutate: func(cfg *Config) {
				cfg.Engine.EventSinks.Redis = true
			},
			wantErr: true,
		},
		{
			name: "redis sink with host",
			mutate: func(cfg *Config) {
				cfg.Engine.EventSinks.Redis = true
				cfg.Database.Redis.Host = "127.0.0.1"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigFileNameByEnv(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"config.yaml", "config.test.yaml", "config.prod.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("server:\n  port: 1\n"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	tests := []struct {
		env  string
		want string
	}{
		{"development", "config.yaml"},
		{"test", "config.test.yaml"},
		{"testing", "config.test.yaml"},
		{"production", "config.prod.yaml"},
		{"prod", "config.prod.yaml"},
	}

	for _, tt := range tests {
		got := getConfigFileName(dir, tt.env)
		if filepath.Base(got) != tt.want {
			t.Errorf("getConfigFileName(%q) = %s, want %s", tt.env, filepath.Base(got), tt.want)
		}
	}

	// 环境专属文件缺失时回退到默认配置
	fallbackDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(fallbackDir, "config.yaml"), []byte("server:\n  port: 1\n"), 0644); err != nil {
		t.Fatalf("write fallback config: %v", err)
	}
	if got := getConfigFileName(fallbackDir, "production"); filepath.Base(got) != "config.yaml" {
		t.Errorf("fallback = %s, want config.yaml", filepath.Base(got))
	}
}
