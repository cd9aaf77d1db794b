package renderer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	serrors "pdfSentinel/internal/errors"
)

// LocateTool 查找 pdftoppm 可执行文件
// configured 非空时只检查该路径
func LocateTool(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", serrors.RenderError(serrors.ErrRenderTool, 0, err).WithFile(configured)
		}
		return configured, nil
	}

	// 首先尝试 PATH 中查找
	if path, err := exec.LookPath("pdftoppm"); err == nil {
		return path, nil
	}

	var candidates []string
	if runtime.GOOS == "windows" {
		candidates = []string{
			filepath.Join(os.Getenv("ProgramFiles"), "poppler", "bin", "pdftoppm.exe"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "poppler", "Library", "bin", "pdftoppm.exe"),
		}
	} else {
		candidates = []string{
			"/usr/bin/pdftoppm",
			"/usr/local/bin/pdftoppm",
			"/opt/homebrew/bin/pdftoppm", // macOS Homebrew (Apple Silicon)
		}
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", serrors.RenderError(serrors.ErrRenderTool, 0, fmt.Errorf("pdftoppm not found in PATH"))
}
