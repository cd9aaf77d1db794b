package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// ==========================================
// config 命令
// ==========================================

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "查看或修改扫描配置",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前生效的配置",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		cfg := a.Config
		scan := a.Settings.Get()

		colorCyan.Println("⚙️  扫描决策 (持久化):")
		fmt.Printf("   quarantine_threshold : %d\n", scan.QuarantineThreshold)
		fmt.Printf("   simulate_reputation  : %v\n", scan.SimulateReputationLookup)
		printSeparator()

		colorCyan.Println("📋 文件配置:")
		fmt.Printf("   数据目录       : %s\n", cfg.Agent.DataDir)
		fmt.Printf("   严格类型校验   : %v\n", cfg.Scan.StrictMediaType)
		fmt.Printf("   大小上限       : %s\n", formatFileSize(cfg.Scan.MaxFileSize))
		fmt.Printf("   采样窗口       : %d bytes\n", cfg.Scanner.WindowSize)
		fmt.Printf("   信誉服务       : %s (key %s)\n", cfg.Reputation.BaseURL, configured(cfg.Reputation.APIKey))
		fmt.Printf("   AI 研判        : %v (%s, key %s)\n", cfg.Advisory.Enable, cfg.Advisory.Model, configured(cfg.Advisory.APIKey))
		fmt.Printf("   渲染倍率/质量  : %v / %d\n", cfg.Sanitizer.Scale, cfg.Sanitizer.JPEGQuality)
		fmt.Printf("   HTTP 监听      : %s\n", cfg.Server.Listen)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "修改并持久化扫描配置",
	Long: `可修改的键:
  quarantine_threshold  隔离阈值 (0-100)，评分 ≥ 阈值即隔离
  simulate_reputation   信誉查询演示模式 (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		next := a.Settings.Get()
		switch args[0] {
		case "quarantine_threshold":
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quarantine_threshold 必须为整数: %q", args[1])
			}
			next.QuarantineThreshold = v
		case "simulate_reputation":
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("simulate_reputation 必须为 true/false: %q", args[1])
			}
			next.SimulateReputationLookup = v
		default:
			return fmt.Errorf("未知配置项: %s", args[0])
		}

		if err := a.Settings.Update(next); err != nil {
			return err
		}
		colorGreen.Printf("✅ %s = %s\n", args[0], args[1])
		return nil
	},
}

func configured(key string) string {
	if key == "" {
		return "未配置"
	}
	return "已配置"
}
