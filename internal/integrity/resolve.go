package integrity

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tjfoc/gmsm/sm3"
)

// SelfExecutablePath 当前进程二进制文件的绝对路径 (解析软链接)
func SelfExecutablePath() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}
	return resolvePath(exePath)
}

// resolvePath 监控实体文件而不是链接本身
func resolvePath(path string) (string, error) {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlink: %v", err)
	}
	absPath, err := filepath.Abs(realPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %v", err)
	}
	return absPath, nil
}

// ComputeFileSM3 流式计算文件的 SM3 摘要 (十六进制)
func ComputeFileSM3(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sm3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
