// Package integrity 可执行文件完整性巡检
// 启动时为 sentineld 自身与外部渲染工具建立 SM3 基线，之后周期比对
package integrity

import (
	"fmt"
	"os"
	"sync"
	"time"

	"pdfSentinel/internal/logger"
)

// MinInterval 巡检周期下限，防止空转
const MinInterval = time.Second

type target struct {
	path     string
	baseline string
}

// Monitor 完整性监控器
type Monitor struct {
	targets  []target
	reporter Reporter

	mu         sync.Mutex
	running    bool
	stopChan   chan struct{}
	violations []Violation // 最近一轮巡检的结果
}

// NewMonitor 为每个路径计算基线
// 假设启动这一刻文件是可信的；任一路径无法建立基线即返回错误
func NewMonitor(paths []string, reporter Reporter) (*Monitor, error) {
	if reporter == nil {
		reporter = LogReporter{}
	}

	m := &Monitor{reporter: reporter}
	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		resolved, err := resolvePath(p)
		if err != nil {
			return nil, err
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		hash, err := ComputeFileSM3(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to compute baseline hash for %s: %v", resolved, err)
		}
		m.targets = append(m.targets, target{path: resolved, baseline: hash})
		logger.Info("Integrity baseline established", "path", resolved, "hash", hash)
	}
	return m, nil
}

// Targets 被监控的路径
func (m *Monitor) Targets() []string {
	out := make([]string, len(m.targets))
	for i, t := range m.targets {
		out[i] = t.path
	}
	return out
}

// Start 启动后台巡检，重复调用无效果
func (m *Monitor) Start(interval time.Duration) {
	if interval < MinInterval {
		logger.Warn("Integrity interval too short, resetting", "interval", interval, "min", MinInterval)
		interval = MinInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})

	go m.loop(time.NewTicker(interval), m.stopChan)
	logger.Info("Integrity monitor started", "interval", interval, "targets", len(m.targets))
}

// Stop 停止巡检
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	close(m.stopChan)
	m.running = false
	logger.Info("Integrity monitor stopped")
}

func (m *Monitor) loop(ticker *time.Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check 执行一轮巡检，上报并记录发现的异常
func (m *Monitor) Check() []Violation {
	var found []Violation
	for _, t := range m.targets {
		found = append(found, checkTarget(t)...)
	}
	for _, v := range found {
		m.reporter.Report(v)
	}

	m.mu.Lock()
	m.violations = found
	m.mu.Unlock()
	return found
}

// Violations 最近一轮巡检的异常 (副本)
func (m *Monitor) Violations() []Violation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Violation, len(m.violations))
	copy(out, m.violations)
	return out
}

// Healthy 最近一轮巡检没有异常
func (m *Monitor) Healthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.violations) == 0
}

func checkTarget(t target) []Violation {
	// 1. 存在性
	info, err := os.Stat(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Violation{{TypeFileDeleted, t.path, "executable file vanished"}}
		}
		return []Violation{{TypeReadError, t.path, fmt.Sprintf("cannot stat: %v", err)}}
	}

	var out []Violation

	// 2. 权限
	if info.Mode().Perm()&0002 != 0 {
		out = append(out, Violation{TypePermChanged, t.path, "executable became world-writable"})
	}

	// 3. 比对基线
	current, err := ComputeFileSM3(t.path)
	if err != nil {
		return append(out, Violation{TypeReadError, t.path, fmt.Sprintf("failed to compute hash: %v", err)})
	}
	if current != t.baseline {
		out = append(out, Violation{TypeFileModified, t.path,
			fmt.Sprintf("baseline=%s current=%s", t.baseline, current)})
	}
	return out
}
