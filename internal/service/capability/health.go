/**
 * 能力服务层:健康检查能力
 * @author: sun977
 * @date: 2026.08.25
 * @description: health_check能力,采集宿主机CPU/内存/主机信息
 * @func: HealthCheckCapability结构体
 */
package capability

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthCheckCapability 健康检查能力
// 通过gopsutil采集宿主机指标,单项采集失败不影响其余指标
type HealthCheckCapability struct{}

// NewHealthCheckCapability 创建健康检查能力实例
func NewHealthCheckCapability() *HealthCheckCapability {
	return &HealthCheckCapability{}
}

// Name 返回能力注册名
func (c *HealthCheckCapability) Name() string {
	return "health_check"
}

// Description 返回能力描述
func (c *HealthCheckCapability) Description() string {
	return "采集宿主机CPU/内存/主机信息"
}

// Handle 执行健康检查
func (c *HealthCheckCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	result := map[string]interface{}{
		"checked_at": time.Now().Format("2006-01-02 15:04:05.000"),
	}

	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		result["memory"] = map[string]interface{}{
			"total":        memInfo.Total,
			"available":    memInfo.Available,
			"used_percent": memInfo.UsedPercent,
		}
	} else {
		result["memory_error"] = err.Error()
	}

	if percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false); err == nil && len(percents) > 0 {
		result["cpu"] = map[string]interface{}{
			"used_percent": percents[0],
		}
	} else if err != nil {
		result["cpu_error"] = err.Error()
	}

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		result["host"] = map[string]interface{}{
			"hostname": hostInfo.Hostname,
			"os":       hostInfo.OS,
			"platform": hostInfo.Platform,
			"uptime":   hostInfo.Uptime,
		}
	} else {
		result["host_error"] = err.Error()
	}

	return result, nil
}
