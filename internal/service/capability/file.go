/**
 * 能力服务层:文件读写能力
 * @author: sun977
 * @date: 2026.08.25
 * @description: file_read/file_write能力,限定在配置的工作根目录内读写文件
 * @func: FileReadCapability、FileWriteCapability结构体
 * @note: 路径一律相对工作根目录解析,目录穿越与绝对路径直接拒绝
 */
package capability

import (
	"context"
	"strings"

	"neotask/internal/model/task"
	"neotask/internal/pkg/utils"
)

// FileReadCapability 文件读取能力
type FileReadCapability struct {
	workspaceDir string
}

// NewFileReadCapability 创建文件读取能力实例
func NewFileReadCapability(workspaceDir string) *FileReadCapability {
	return &FileReadCapability{workspaceDir: workspaceDir}
}

// Name 返回能力注册名
func (c *FileReadCapability) Name() string {
	return "file_read"
}

// Description 返回能力描述
func (c *FileReadCapability) Description() string {
	return "读取工作目录内的文件内容"
}

// Handle 执行文件读取
// 必选参数 path(string) 为相对工作根目录的文件路径
func (c *FileReadCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	relPath, _ := params["path"].(string)
	relPath = strings.TrimSpace(relPath)
	if relPath == "" {
		return nil, task.NewCapabilityError(c.Name(), "path parameter is required")
	}

	absPath, err := utils.ResolveWithinRoot(c.workspaceDir, relPath)
	if err != nil {
		return nil, task.NewCapabilityError(c.Name(), err.Error())
	}

	content, err := utils.ReadFile(absPath)
	if err != nil {
		return nil, task.NewCapabilityError(c.Name(), err.Error())
	}

	return map[string]interface{}{
		"path":    relPath,
		"size":    len(content),
		"content": string(content),
	}, nil
}

// FileWriteCapability 文件写入能力
type FileWriteCapability struct {
	workspaceDir string
}

// NewFileWriteCapability 创建文件写入能力实例
func NewFileWriteCapability(workspaceDir string) *FileWriteCapability {
	return &FileWriteCapability{workspaceDir: workspaceDir}
}

// Name 返回能力注册名
func (c *FileWriteCapability) Name() string {
	return "file_write"
}

// Description 返回能力描述
func (c *FileWriteCapability) Description() string {
	return "向工作目录内的文件写入内容"
}

// Handle 执行文件写入
// 必选参数 path(string)、content(string);父目录不存在时自动创建
func (c *FileWriteCapability) Handle(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	relPath, _ := params["path"].(string)
	relPath = strings.TrimSpace(relPath)
	if relPath == "" {
		return nil, task.NewCapabilityError(c.Name(), "path parameter is required")
	}

	content, ok := params["content"].(string)
	if !ok {
		return nil, task.NewCapabilityError(c.Name(), "content parameter is required")
	}

	absPath, err := utils.ResolveWithinRoot(c.workspaceDir, relPath)
	if err != nil {
		return nil, task.NewCapabilityError(c.Name(), err.Error())
	}

	if err := utils.WriteFile(absPath, []byte(content), 0644); err != nil {
		return nil, task.NewCapabilityError(c.Name(), err.Error())
	}

	return map[string]interface{}{
		"path":    relPath,
		"written": len(content),
	}, nil
}
