/**
 * 能力服务层:目录检索能力
 * @author: sun977
 * @date: 2026.08.25
 * @description: dir_search能力,在工作根目录内按文件名模式检索文件
 * @func: DirSearchCapability结构体
 */
package capability

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"neotask/internal/model/task"
)

// 单次检索返回的最大条目数
const dirSearchMaxResults = 1000

// DirSearchCapability 目录检索能力
type DirSearchCapability struct {
	workspaceDir string
}

// NewDirSearchCapability 创建目录检索能力实例
func NewDirSearchCapability(workspaceDir string) *DirSearchCapability {
	return &DirSearchCapability{workspaceDir: workspaceDir}
}

// Name 返回能力注册名
func (c *DirSearchCapability) Name() string {
	return "dir_search"
}

// Description 返回能力描述
func (c *DirSearchCapability) Description() string {
	return "在工作目录内按文件名模式检索文件"
}

// Handle 执行目录检索
// 可选参数 pattern(string) 为文件名glob模式,默认 * ;
// 返回相对工作根目录的匹配文件列表
func (c *DirSearchCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	pattern := "*"
	if v, ok := params["pattern"].(string); ok && strings.TrimSpace(v) != "" {
		pattern = strings.TrimSpace(v)
	}
	// 提前校验模式合法性
	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return nil, task.NewCapabilityError(c.Name(), "invalid pattern: "+pattern)
	}

	absRoot, err := filepath.Abs(c.workspaceDir)
	if err != nil {
		return nil, task.NewCapabilityError(c.Name(), err.Error())
	}
	if _, err := os.Stat(absRoot); os.IsNotExist(err) {
		return map[string]interface{}{
			"pattern": pattern,
			"matches": []string{},
			"count":   0,
		}, nil
	}

	matches := make([]string, 0)
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// 单个子目录的读取失败不影响检索其余部分
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			rel, relErr := filepath.Rel(absRoot, path)
			if relErr != nil {
				return nil
			}
			matches = append(matches, filepath.ToSlash(rel))
			if len(matches) >= dirSearchMaxResults {
				return fs.SkipAll
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, task.NewCapabilityError(c.Name(), walkErr.Error())
	}

	return map[string]interface{}{
		"pattern": pattern,
		"matches": matches,
		"count":   len(matches),
	}, nil
}
