// Package main pdfSentinel 命令行工具
// 扫描、净化、配置与归档导出
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pdfSentinel/internal/app"
	"pdfSentinel/internal/config"
	serrors "pdfSentinel/internal/errors"
)

// ==========================================
// 全局变量和配置
// ==========================================

var (
	appName = "sentinel"

	// 命令行参数
	configPath  string
	dataDir     string
	verboseMode bool

	// 颜色输出
	colorRed     = color.New(color.FgRed, color.Bold)
	colorGreen   = color.New(color.FgGreen, color.Bold)
	colorYellow  = color.New(color.FgYellow)
	colorCyan    = color.New(color.FgCyan)
	colorMagenta = color.New(color.FgMagenta)
	colorWhite   = color.New(color.FgWhite)
)

// errQuarantined 文档被隔离，退出码 2
var errQuarantined = errors.New("document quarantined")

// ==========================================
// 主入口
// ==========================================

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errQuarantined) {
			os.Exit(2)
		}
		colorRed.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage 流水线错误附带代码描述与处理建议，致命错误单独标注
func errorMessage(err error) string {
	se, ok := serrors.As(err)
	if !ok {
		return "Error: " + err.Error()
	}
	prefix := "Error: "
	if se.IsFatal() {
		prefix = "Fatal: "
	}
	return prefix + se.Error() + "\n" + se.UserMessage()
}

// ==========================================
// 根命令
// ==========================================

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "PDF 威胁扫描与净化工具",
	Long: `
███████╗███████╗███╗   ██╗████████╗██╗███╗   ██╗███████╗██╗     
██╔════╝██╔════╝████╗  ██║╚══██╔══╝██║████╗  ██║██╔════╝██║     
███████╗█████╗  ██╔██╗ ██║   ██║   ██║██╔██╗ ██║█████╗  ██║     
╚════██║██╔══╝  ██║╚██╗██║   ██║   ██║██║╚██╗██║██╔══╝  ██║     
███████║███████╗██║ ╚████║   ██║   ██║██║ ╚████║███████╗███████╗
╚══════╝╚══════╝╚═╝  ╚═══╝   ╚═╝   ╚═╝╚═╝  ╚═══╝╚══════╝╚══════╝

对不可信的 PDF 做静态启发式扫描、信誉查询与风险评分，
并可将文档逐页栅格化为不含任何活动内容的副本。

示例:
  # 扫描文件
  sentinel scan invoice.pdf

  # 扫描并附加 AI 研判，JSON 输出
  sentinel scan invoice.pdf --json --advisory

  # 生成净化副本
  sentinel sanitize invoice.pdf -o invoice_clean.pdf

  # 调整隔离阈值
  sentinel config set quarantine_threshold 40
`,
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ==========================================
// version 命令
// ==========================================

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.FullVersionInfo())
	},
}

// ==========================================
// 初始化辅助
// ==========================================

// bootstrap 加载配置并初始化组件
// needStorage 为 false 时存储不可用只给出警告
func bootstrap(needStorage bool) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Agent.DataDir = dataDir
	}
	if verboseMode {
		cfg.Agent.LogLevel = "debug"
	}

	a := app.New(cfg)
	if err := a.InitLogger(verboseMode); err != nil {
		colorYellow.Fprintf(os.Stderr, "⚠️  日志初始化失败，输出到 stderr: %v\n", err)
	}

	if err := a.InitStorage(); err != nil {
		if needStorage {
			return nil, err
		}
		colorYellow.Fprintf(os.Stderr, "⚠️  存储不可用，配置仅在本次运行中生效: %v\n", err)
	}

	if err := a.InitServices(); err != nil {
		a.Shutdown()
		return nil, err
	}
	return a, nil
}

// printBanner 打印工具标题
func printBanner() {
	fmt.Println()
	colorMagenta.Println("╔════════════════════════════════════════════════════════╗")
	colorMagenta.Println("║              pdfSentinel 文档威胁扫描                  ║")
	colorMagenta.Printf("║  Version %-46s║\n", config.Version)
	colorMagenta.Println("╚════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// printSeparator 打印分隔线
func printSeparator() {
	colorWhite.Println("────────────────────────────────────────────────────────────")
}

// formatFileSize 格式化文件大小
func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// ==========================================
// 初始化
// ==========================================

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认搜索 /etc/pdfSentinel/ 与当前目录)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "覆盖数据目录 (数据库)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "启用详细输出模式")

	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "以 JSON 输出评估结果")
	scanCmd.Flags().BoolVar(&scanAdvisory, "advisory", false, "附加 AI 研判摘要")

	sanitizeCmd.Flags().StringVarP(&sanitizeOutput, "output", "o", "", "输出文件路径 (默认: sanitized_<name>.pdf)")
	sanitizeCmd.Flags().BoolVar(&sanitizeForce, "force", false, "覆盖已存在的输出文件")

	archiveExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "输出文件路径 (默认: 标准输出)")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(sanitizeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(integrityCmd)
	rootCmd.AddCommand(versionCmd)
}
