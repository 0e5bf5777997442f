/**
 * 能力服务层:反思能力
 * @author: sun977
 * @date: 2026.08.25
 * @description: reflect能力,基于任务参数生成一段结构化的反思文本
 * @func: ReflectCapability结构体
 */
package capability

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ReflectCapability 反思能力
// 对任务参数做一次自省式总结,输出反思文本与观察到的参数键
type ReflectCapability struct{}

// NewReflectCapability 创建反思能力实例
func NewReflectCapability() *ReflectCapability {
	return &ReflectCapability{}
}

// Name 返回能力注册名
func (c *ReflectCapability) Name() string {
	return "reflect"
}

// Description 返回能力描述
func (c *ReflectCapability) Description() string {
	return "基于任务参数生成反思文本"
}

// Handle 执行反思
// 可选参数 topic(string) 指定反思主题;其余参数作为观察输入
func (c *ReflectCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	topic := "current task"
	if v, ok := params["topic"].(string); ok && strings.TrimSpace(v) != "" {
		topic = strings.TrimSpace(v)
	}

	// 收集观察到的参数键(字典序,保证输出稳定)
	observed := make([]string, 0, len(params))
	for k := range params {
		if k == "topic" {
			continue
		}
		observed = append(observed, k)
	}
	sort.Strings(observed)

	reflection := fmt.Sprintf("Reflecting on %s: observed %d input(s)", topic, len(observed))
	if len(observed) > 0 {
		reflection = fmt.Sprintf("%s [%s]", reflection, strings.Join(observed, ", "))
	}

	return map[string]interface{}{
		"topic":         topic,
		"reflection":    reflection,
		"observed_keys": observed,
		"generated_at":  time.Now().Format("2006-01-02 15:04:05.000"),
	}, nil
}
