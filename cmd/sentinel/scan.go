package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pdfSentinel/internal/app"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
)

var (
	scanJSON     bool
	scanAdvisory bool
)

// ==========================================
// scan 命令
// ==========================================

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "扫描文档并给出风险评估",
	Long: `对文档执行启发式扫描与信誉查询，输出评分、分类与隔离决策。

被隔离的文档以退出码 2 结束，便于脚本判断。`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !scanJSON {
		printBanner()
		colorYellow.Println("🔄 正在扫描...")
	}

	assessment, err := scanOne(ctx, a, args[0], scanAdvisory)
	if err != nil {
		return err
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(assessment); err != nil {
			return err
		}
	} else {
		printAssessment(assessment)
	}

	if assessment.Locked {
		return errQuarantined
	}
	return nil
}

// scanOne 扫描、附加研判并归档
func scanOne(ctx context.Context, a *app.App, path string, withAdvisory bool) (model.RiskAssessment, error) {
	res, err := a.Scanner.ScanFile(ctx, path, a.Settings.Get())
	if err != nil {
		return model.RiskAssessment{}, err
	}

	assessment := *res
	if withAdvisory {
		assessment = assessment.WithNarrative(a.Narrator.Summarize(ctx, assessment))
	}

	a.History.Add(assessment.HistoryEntry())
	if a.Stores != nil {
		if err := a.Stores.Archive.Push(assessment.Archive()); err != nil {
			logger.Warn("archive push failed", "id", assessment.ID, "error", err)
		}
	}
	return assessment, nil
}

// ==========================================
// 输出
// ==========================================

func classificationColor(level model.RiskLevel) *color.Color {
	switch level {
	case model.RiskMalicious:
		return colorRed
	case model.RiskSuspicious:
		return colorYellow
	default:
		return colorGreen
	}
}

func printAssessment(a model.RiskAssessment) {
	colorCyan.Println("📋 文件信息:")
	fmt.Printf("   名称     : %s\n", a.FileName)
	fmt.Printf("   大小     : %s (%d bytes)\n", formatFileSize(a.FileSize), a.FileSize)
	fmt.Printf("   类型     : %s\n", a.DetectedType)
	fmt.Printf("   SHA-256  : %s\n", a.Fingerprint)
	if a.SM3 != "" {
		fmt.Printf("   SM3      : %s\n", a.SM3)
	}
	printSeparator()

	// 评分与决策
	c := classificationColor(a.Classification)
	c.Printf("🧮 风险评分: %d/100  [%s]\n", a.Score, a.Classification)
	if a.Locked {
		colorRed.Printf("🔒 决策: 已隔离 (评分 ≥ 阈值 %d)，禁止直接打开\n", a.Threshold)
	} else {
		colorGreen.Printf("🔓 决策: 允许查看 (阈值 %d)\n", a.Threshold)
	}
	printSeparator()

	// 启发式发现
	if len(a.Findings) == 0 {
		colorGreen.Println("🔎 启发式发现: 无")
	} else {
		colorCyan.Printf("🔎 启发式发现 (%d):\n", len(a.Findings))
		for _, f := range a.Findings {
			fc := colorWhite
			if f.Severity >= model.SeverityHigh {
				fc = colorRed
			} else if f.Severity == model.SeverityMedium {
				fc = colorYellow
			}
			fc.Printf("   [%-8s] %s ×%d\n", f.Severity, f.Category, f.OccurrenceCount)
			fmt.Printf("              %s\n", f.Description)
			for i, frag := range f.Fragments {
				fmt.Printf("              ↳ 片段 %d: %s\n", i+1, preview(string(frag), 72))
			}
		}
	}
	printSeparator()

	// 信誉
	rep := a.Reputation
	switch {
	case rep.Simulated:
		colorYellow.Printf("🌐 信誉: %s\n", rep.FailureReason)
	case !rep.Queried:
		colorYellow.Printf("🌐 信誉: 查询失败 (%s)，不计入评分\n", rep.FailureReason)
	case rep.Note != "":
		colorWhite.Printf("🌐 信誉: %s\n", rep.Note)
	default:
		rc := colorGreen
		if rep.Positives > 0 {
			rc = colorRed
		}
		rc.Printf("🌐 信誉: %d/%d 引擎报毒\n", rep.Positives, rep.Total)
		if rep.ReferenceLink != "" {
			fmt.Printf("   报告: %s\n", rep.ReferenceLink)
		}
	}

	if a.Narrative != nil {
		printSeparator()
		if a.Narrative.Available {
			colorMagenta.Println("🤖 AI 研判 (仅供参考):")
		} else {
			colorYellow.Println("🤖 AI 研判:")
		}
		fmt.Printf("   %s\n", a.Narrative.Text)
	}
	fmt.Println()
}

// preview 单行截断
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) > n {
		return string([]rune(s)[:n-3]) + "..."
	}
	return s
}
