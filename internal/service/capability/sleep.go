/**
 * 能力服务层:延时能力
 * @author: sun977
 * @date: 2026.08.25
 * @description: sleep能力,休眠指定毫秒数(用于并行效率验证与诊断)
 * @func: SleepCapability结构体
 */
package capability

import (
	"context"
	"time"

	"neotask/internal/model/task"
)

// 单次休眠允许的最大毫秒数
const sleepMaxDurationMS = 10000

// SleepCapability 延时能力
type SleepCapability struct{}

// NewSleepCapability 创建延时能力实例
func NewSleepCapability() *SleepCapability {
	return &SleepCapability{}
}

// Name 返回能力注册名
func (c *SleepCapability) Name() string {
	return "sleep"
}

// Description 返回能力描述
func (c *SleepCapability) Description() string {
	return "休眠指定毫秒数"
}

// Handle 执行休眠
// 可选参数 duration_ms(number) 默认100,上限10000;上下文取消时提前返回错误
func (c *SleepCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	durationMS := int64(100)
	switch v := params["duration_ms"].(type) {
	case float64: // JSON解码的数字
		durationMS = int64(v)
	case int:
		durationMS = int64(v)
	case int64:
		durationMS = v
	}

	if durationMS < 0 {
		return nil, task.NewCapabilityError(c.Name(), "duration_ms cannot be negative")
	}
	if durationMS > sleepMaxDurationMS {
		return nil, task.NewCapabilityError(c.Name(), "duration_ms exceeds the 10000ms limit")
	}

	timer := time.NewTimer(time.Duration(durationMS) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return map[string]interface{}{
			"slept_ms": durationMS,
		}, nil
	case <-ctx.Done():
		return nil, task.NewCapabilityError(c.Name(), "sleep interrupted: "+ctx.Err().Error())
	}
}
