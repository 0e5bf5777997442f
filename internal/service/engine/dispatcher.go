/**
 * 引擎服务层:动作分发器
 * @author: sun977
 * @date: 2026.08.25
 * @description: 将动作名称解析为能力提供者并执行(含故障隔离边界)
 * @func: Capability接口、CapabilityRegistry注册表、ActionDispatcher分发器
 * @note: 单个动作的panic/错误在分发边界被拦截,只影响对应的ActionResult
 */
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"neotask/internal/model/task"
	"neotask/internal/pkg/logger"
)

// Capability 能力提供者接口
// 每个注册的能力对应一个可分发的动作名称
type Capability interface {
	// Name 返回能力的注册名(动作名称)
	Name() string
	// Description 返回能力的用途描述
	Description() string
	// Handle 执行动作,返回输出或错误
	Handle(ctx context.Context, params map[string]interface{}) (interface{}, error)
}

// CapabilityRegistry 能力注册表
// 动作名称到能力提供者的映射,注册在启动阶段完成,执行阶段只读
type CapabilityRegistry struct {
	capabilities map[string]Capability
	mutex        sync.RWMutex
}

// NewCapabilityRegistry 创建能力注册表实例
func NewCapabilityRegistry() *CapabilityRegistry {
	return &CapabilityRegistry{
		capabilities: make(map[string]Capability),
	}
}

// Register 注册能力提供者
// 重名注册返回错误,避免启动阶段静默覆盖
func (r *CapabilityRegistry) Register(c Capability) error {
	if c == nil || c.Name() == "" {
		return fmt.Errorf("capability and capability name are required")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.capabilities[c.Name()]; exists {
		return fmt.Errorf("capability already registered: %s", c.Name())
	}
	r.capabilities[c.Name()] = c
	return nil
}

// Get 按名称查找能力提供者
func (r *CapabilityRegistry) Get(name string) (Capability, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	c, exists := r.capabilities[name]
	return c, exists
}

// Names 返回已注册的能力名称列表(字典序)
func (r *CapabilityRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActionDispatcher 动作分发器
// 解析动作名称、执行能力、把任何形式的失败收敛为ActionResult
type ActionDispatcher struct {
	registry *CapabilityRegistry
}

// NewActionDispatcher 创建动作分发器实例
func NewActionDispatcher(registry *CapabilityRegistry) *ActionDispatcher {
	return &ActionDispatcher{
		registry: registry,
	}
}

// Registry 返回底层能力注册表
func (d *ActionDispatcher) Registry() *CapabilityRegistry {
	return d.registry
}

// Dispatch 执行单个动作
// 未注册的动作、能力返回的错误、以及能力内部的panic都转化为失败的ActionResult,
// 不向上传播,保证兄弟动作与任务本身不受影响
func (d *ActionDispatcher) Dispatch(ctx context.Context, spec task.ActionSpec, params map[string]interface{}) task.ActionResult {
	result := task.ActionResult{
		Index: spec.Index,
		Name:  spec.Name,
	}

	capability, exists := d.registry.Get(spec.Name)
	if !exists {
		result.Success = false
		result.Error = fmt.Sprintf("%s: %s", task.ErrUnknownAction.Error(), spec.Name)
		return result
	}

	startTime := time.Now()
	output, err := d.invoke(ctx, capability, params)
	result.DurationMS = time.Since(startTime).Milliseconds()

	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Output = output
	return result
}

// invoke 调用能力并拦截panic
// panic转化为CapabilityError,故障被隔离在单个动作内
func (d *ActionDispatcher) invoke(ctx context.Context, capability Capability, params map[string]interface{}) (output interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("capability %s panicked: %v", capability.Name(), r)
			output = nil
			err = task.NewCapabilityError(capability.Name(), fmt.Sprintf("panic: %v", r))
		}
	}()

	return capability.Handle(ctx, params)
}
