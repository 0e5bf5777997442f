/**
 * 能力服务层:演进能力
 * @author: sun977
 * @date: 2026.08.25
 * @description: evolve能力,基于给定的指令合成后续追问/改进方向
 * @func: EvolveCapability结构体
 */
package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"neotask/internal/model/task"
)

// EvolveCapability 演进能力
// 接收一条指令,产出围绕该指令的追问列表,供上层的递归自省流程消费
type EvolveCapability struct{}

// NewEvolveCapability 创建演进能力实例
func NewEvolveCapability() *EvolveCapability {
	return &EvolveCapability{}
}

// Name 返回能力注册名
func (c *EvolveCapability) Name() string {
	return "evolve"
}

// Description 返回能力描述
func (c *EvolveCapability) Description() string {
	return "基于指令合成后续追问"
}

// Handle 执行演进
// 必选参数 directive(string) 为演进指令;缺失时返回能力错误
func (c *EvolveCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	directive, _ := params["directive"].(string)
	directive = strings.TrimSpace(directive)
	if directive == "" {
		return nil, task.NewCapabilityError(c.Name(), "directive parameter is required")
	}

	questions := []string{
		fmt.Sprintf("What is the immediate next step toward: %s?", directive),
		fmt.Sprintf("What information is still missing to accomplish: %s?", directive),
		fmt.Sprintf("What could fail while pursuing: %s?", directive),
	}

	return map[string]interface{}{
		"directive":    directive,
		"questions":    questions,
		"generated_at": time.Now().Format("2006-01-02 15:04:05.000"),
	}, nil
}
