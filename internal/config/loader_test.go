package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	serrors "pdfSentinel/internal/errors"
)

// TestLoadConfig_Integration 是一个综合集成测试
// 它会创建一个临时配置文件，设置环境变量，然后加载配置并验证结果
func TestLoadConfig_Integration(t *testing.T) {
	// 1. 准备测试数据 (YAML 内容)
	// 故意漏掉 sanitizer.jpeg_quality，测试默认值是否生效
	// reputation.api_key 稍后尝试用环境变量覆盖
	yamlContent := []byte(`
agent:
  log_level: "warn"
  data_dir: "/tmp/sentinel_data"

scan:
  quarantine_threshold: 70
  simulate_reputation: false

reputation:
  api_key: "from-file"
  timeout: "5s"

sanitizer:
  scale: 3
`)

	// 2. 创建临时配置文件
	tmpFile := filepath.Join(t.TempDir(), "config_test.yaml")
	if err := os.WriteFile(tmpFile, yamlContent, 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	// 3. 设置环境变量
	// reputation.api_key -> SENTINEL_REPUTATION_API_KEY
	t.Setenv("SENTINEL_REPUTATION_API_KEY", "from-env")

	// 4. 执行加载
	// 注意：由于 loader.go 使用了 sync.Once，这个函数在整个测试包中只能有效运行一次
	if err := LoadConfig(tmpFile); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	cfg := Get()

	// 验证 A: 配置文件中的值是否正确读取
	if cfg.Agent.LogLevel != "warn" {
		t.Errorf("Expected Agent.LogLevel 'warn', got '%s'", cfg.Agent.LogLevel)
	}
	if cfg.Scan.QuarantineThreshold != 70 {
		t.Errorf("Expected QuarantineThreshold 70, got %d", cfg.Scan.QuarantineThreshold)
	}
	if cfg.Scan.SimulateReputation {
		t.Error("Expected SimulateReputation false")
	}
	if cfg.Sanitizer.Scale != 3 {
		t.Errorf("Expected Sanitizer.Scale 3, got %v", cfg.Sanitizer.Scale)
	}

	// 验证 B: 默认值是否生效
	if cfg.Sanitizer.JPEGQuality != 85 {
		t.Errorf("Expected JPEGQuality default 85, got %d", cfg.Sanitizer.JPEGQuality)
	}
	if cfg.Scanner.WindowSize != 128000 {
		t.Errorf("Expected WindowSize default 128000, got %d", cfg.Scanner.WindowSize)
	}
	if cfg.History.Capacity != 10 {
		t.Errorf("Expected History.Capacity default 10, got %d", cfg.History.Capacity)
	}

	// 验证 C: 环境变量覆盖配置文件 (Env > ConfigFile > Default)
	if cfg.Reputation.APIKey != "from-env" {
		t.Errorf("Environment variable override failed. Expected 'from-env', got '%s'", cfg.Reputation.APIKey)
	}

	// 验证 D: Duration 解析
	if cfg.Reputation.Timeout != 5*time.Second {
		t.Errorf("Duration parsing failed. Expected 5s, got %v", cfg.Reputation.Timeout)
	}
	if cfg.Reputation.SimulateDelay != 800*time.Millisecond {
		t.Errorf("Expected SimulateDelay default 800ms, got %v", cfg.Reputation.SimulateDelay)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantKey string
	}{
		{"threshold above range", "scan:\n  quarantine_threshold: 101\n", "quarantine_threshold"},
		{"threshold below range", "scan:\n  quarantine_threshold: -1\n", "quarantine_threshold"},
		{"zero scale", "sanitizer:\n  scale: 0\n", "sanitizer.scale"},
		{"jpeg quality", "sanitizer:\n  jpeg_quality: 0\n", "jpeg_quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !serrors.IsConfigError(err) {
				t.Errorf("expected config error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("error %q should mention %s", err.Error(), tt.wantKey)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateThreshold_Boundaries(t *testing.T) {
	for _, v := range []int{0, 55, 100} {
		if err := ValidateThreshold(v); err != nil {
			t.Errorf("ValidateThreshold(%d) = %v, want nil", v, err)
		}
	}
}
