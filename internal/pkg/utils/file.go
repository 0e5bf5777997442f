// 文件处理工具包
// 提供文件读取、写入、路径判断等操作
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadFileLines 从文件读取内容返回非空行列表
// filePath: 文件路径
// 返回: 内容列表, 错误信息
func ReadFileLines(filePath string) ([]string, error) {
	// 检查文件是否存在
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("文件不存在: %s", filePath)
	}

	// 读取文件内容
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取文件内容失败: %v", err)
	}

	// 按行分割内容，处理不同操作系统的换行符
	lines := strings.Split(string(content), "\n")

	// 移除空行和注释行(#开头)
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		// 移除行末的回车符（Windows换行符 \r\n）
		line = strings.TrimSuffix(line, "\r")
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			result = append(result, line)
		}
	}

	return result, nil
}

// WriteFile 写入文件内容，自动创建父目录
// filePath: 文件路径
// content: 文件内容
// perm: 文件权限
func WriteFile(filePath string, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %v", err)
	}
	return os.WriteFile(filePath, content, perm)
}

// ReadFile 读取文件内容
// filePath: 文件路径
// 返回: 文件内容, 错误信息
func ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// ResolveWithinRoot 将相对路径解析到root目录内，拒绝越界路径
// 用于文件类能力的路径约束，防止 ../.. 形式的目录穿越
func ResolveWithinRoot(root, relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("路径不能为空")
	}
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("不允许使用绝对路径: %s", relPath)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("解析根目录失败: %v", err)
	}

	joined := filepath.Clean(filepath.Join(absRoot, relPath))
	if joined != absRoot && !strings.HasPrefix(joined, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("路径越界: %s", relPath)
	}

	return joined, nil
}
