/**
 * 能力服务层:内置能力注册
 * @author: sun977
 * @date: 2026.08.25
 * @description: 启动阶段把全部内置能力注册到动作分发器的能力注册表
 * @func: RegisterBuiltins
 */
package capability

import (
	"fmt"

	"neotask/internal/config"
	"neotask/internal/service/engine"
)

// RegisterBuiltins 注册全部内置能力
// 文件/目录类能力根目录取自配置 engine.capability.workspace_dir
func RegisterBuiltins(registry *engine.CapabilityRegistry, cfg *config.CapabilityConfig) error {
	workspaceDir := "data/workspace"
	if cfg != nil && cfg.WorkspaceDir != "" {
		workspaceDir = cfg.WorkspaceDir
	}

	builtins := []engine.Capability{
		NewReflectCapability(),
		NewEvolveCapability(),
		NewHealthCheckCapability(),
		NewFileReadCapability(workspaceDir),
		NewFileWriteCapability(workspaceDir),
		NewDirSearchCapability(workspaceDir),
		NewSleepCapability(),
	}

	for _, c := range builtins {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register builtin capability %s: %w", c.Name(), err)
		}
	}
	return nil
}
