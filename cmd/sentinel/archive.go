package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdfSentinel/internal/model"
)

var exportOutput string

// ==========================================
// archive 命令
// ==========================================

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "评估归档管理",
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出并清空评估归档 (JSON)",
	Long: `取出本机加密归档中的全部评估记录并以 JSON 输出。
导出后归档被清空；归档记录不含脚本片段。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		items, err := a.Stores.Archive.PopAll()
		if err != nil {
			return err
		}
		if items == nil {
			items = []model.ArchivedAssessment{}
		}

		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}

		if exportOutput == "" {
			fmt.Println(string(data))
		} else if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			// 写出失败时放回归档
			for _, it := range items {
				a.Stores.Archive.Push(it)
			}
			return fmt.Errorf("写入失败，记录已放回归档: %w", err)
		}

		colorGreen.Fprintf(os.Stderr, "✅ 导出 %d 条记录\n", len(items))
		return nil
	},
}
