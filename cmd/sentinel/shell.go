package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pdfSentinel/internal/app"
)

// ==========================================
// shell 命令 - 交互会话
// ==========================================

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "交互式会话 (带会话历史)",
	Long: `进入交互模式，连续扫描多个文件。
会话历史只保存在内存中，退出即清空。`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	printBanner()
	printShellHelp()

	in := bufio.NewScanner(os.Stdin)
	for {
		colorCyan.Print("sentinel> ")
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}

		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "scan":
			if len(fields) < 2 {
				colorYellow.Println("用法: scan <file>")
				continue
			}
			path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.Text()), "scan"))
			assessment, err := scanOne(context.Background(), a, path, false)
			if err != nil {
				colorRed.Printf("❌ %v\n", err)
				continue
			}
			printAssessment(assessment)
		case "history":
			printHistory(a)
		case "clear":
			a.History.Clear()
			colorGreen.Println("✅ 会话历史已清空")
		case "threshold":
			if len(fields) < 2 {
				fmt.Printf("当前阈值: %d\n", a.Settings.Get().QuarantineThreshold)
				continue
			}
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				colorYellow.Println("用法: threshold <0-100>")
				continue
			}
			next := a.Settings.Get()
			next.QuarantineThreshold = v
			if err := a.Settings.Update(next); err != nil {
				colorRed.Printf("❌ %v\n", err)
				continue
			}
			colorGreen.Printf("✅ 阈值已设为 %d\n", v)
		case "help", "?":
			printShellHelp()
		case "exit", "quit":
			return nil
		default:
			colorYellow.Printf("未知命令: %s (输入 help 查看帮助)\n", fields[0])
		}
	}
}

func printHistory(a *app.App) {
	entries := a.History.List()
	if len(entries) == 0 {
		fmt.Println("(无记录)")
		return
	}
	for i, e := range entries {
		c := classificationColor(e.Classification)
		c.Printf("%2d. %-10s %3d  ", i+1, e.Classification, e.Score)
		fmt.Printf("%s  %s\n", e.Timestamp.Local().Format("15:04:05"), e.Name)
	}
}

func printShellHelp() {
	colorWhite.Println("命令:")
	fmt.Println("  scan <file>       扫描文件")
	fmt.Println("  history           最近的扫描 (最新在前)")
	fmt.Println("  clear             清空会话历史")
	fmt.Println("  threshold [n]     查看或设置隔离阈值")
	fmt.Println("  exit              退出")
	printSeparator()
}
