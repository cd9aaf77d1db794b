package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/fingerprint"
	"pdfSentinel/internal/renderer"
)

var (
	sanitizeOutput string
	sanitizeForce  bool
)

// ==========================================
// sanitize 命令
// ==========================================

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize <file>",
	Short: "生成只含页面图像的净化副本",
	Long: `逐页渲染为位图后重新封装为 PDF，副本中不保留任何脚本、
动作、嵌入文件或链接。需要安装 poppler-utils (pdftoppm)。

任何一页失败都会中止，不会写出不完整的文件。`,
	Args: cobra.ExactArgs(1),
	RunE: runSanitize,
}

func runSanitize(cmd *cobra.Command, args []string) error {
	src, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("无法解析路径: %v", err)
	}

	out := sanitizeOutput
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		out = filepath.Join(filepath.Dir(src), "sanitized_"+base+".pdf")
	}
	if _, err := os.Stat(out); err == nil && !sanitizeForce {
		return fmt.Errorf("输出文件已存在: %s (使用 --force 覆盖)", out)
	}

	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()
	colorCyan.Printf("📁 源文件: %s\n", src)
	colorCyan.Printf("📦 输出  : %s\n", out)
	printSeparator()

	digests, err := fingerprint.ComputeFile(src)
	if err != nil {
		return err
	}

	doc, err := renderer.Open(src, a.RenderOptions())
	if err != nil {
		return err
	}
	defer doc.Close()

	start := time.Now()
	data, err := a.Sanitizer.Sanitize(ctx, digests.SHA256.String(), doc, printProgress)
	fmt.Println()
	if err != nil {
		colorRed.Println("❌ 净化失败，未写出任何文件")
		return err
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return serrors.Wrap(err, serrors.ErrRenderAssemble, "写入输出文件失败").
			WithFile(out).
			WithOperation("write_output")
	}

	colorGreen.Println("✅ 净化完成!")
	fmt.Printf("   输出大小 : %s\n", formatFileSize(int64(len(data))))
	fmt.Printf("   耗时     : %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// printProgress 单行进度条
func printProgress(percent int) {
	const width = 40
	filled := percent * width / 100
	fmt.Printf("\r   [%s%s] %3d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), percent)
}
