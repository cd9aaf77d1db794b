package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pdfSentinel/internal/config"
	"pdfSentinel/internal/integrity"
	"pdfSentinel/internal/renderer"
)

// ==========================================
// integrity 命令 - 查看巡检基线
// ==========================================

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "显示 sentinel 与渲染工具的 SM3 基线",
	Long: `计算 sentineld 完整性巡检所覆盖文件的 SM3 哈希值，
便于与部署清单比对。`,
	Args: cobra.NoArgs,
	RunE: runIntegrity,
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	printBanner()

	self, err := integrity.SelfExecutablePath()
	if err != nil {
		return err
	}
	targets := []string{self}
	if tool, err := renderer.LocateTool(cfg.Sanitizer.PdftoppmPath); err == nil {
		targets = append(targets, tool)
	} else {
		colorYellow.Printf("⚠️  未找到 pdftoppm: %v\n", err)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			colorRed.Printf("❌ 无法访问文件: %v\n", err)
			continue
		}

		start := time.Now()
		hash, err := integrity.ComputeFileSM3(target)
		if err != nil {
			colorRed.Printf("❌ 哈希计算失败: %v\n", err)
			continue
		}

		printSeparator()
		colorCyan.Printf("📁 %s\n", target)
		fmt.Printf("   文件大小 : %s\n", formatFileSize(info.Size()))
		fmt.Printf("   修改时间 : %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
		if info.Mode().Perm()&0002 != 0 {
			colorRed.Println("   权限     : 全局可写!")
		}
		colorWhite.Printf("   SM3 Hash : %s\n", hash)
		fmt.Printf("   计算耗时 : %v\n", time.Since(start).Round(time.Microsecond))
	}
	printSeparator()
	return nil
}
